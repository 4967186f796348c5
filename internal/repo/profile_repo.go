package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/sudhakarkatam/foliochat/internal/model"
	"github.com/sudhakarkatam/foliochat/internal/pkg/dbutil"
)

// ProfileRepo reads the profile source of truth. The admin surface that
// writes these tables lives outside this service.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Snapshot reads every profile entity in one pass, ordered by position so a
// chunking run over it is deterministic.
func (r *ProfileRepo) Snapshot(ctx context.Context) (*model.ProfileSnapshot, error) {
	snap := &model.ProfileSnapshot{}
	var err error
	if snap.Bio, err = r.bio(ctx); err != nil {
		return nil, err
	}
	if snap.Skills, err = r.skills(ctx); err != nil {
		return nil, err
	}
	if snap.Projects, err = r.projects(ctx); err != nil {
		return nil, err
	}
	if snap.Experiences, err = r.experiences(ctx); err != nil {
		return nil, err
	}
	if snap.Contacts, err = r.contacts(ctx); err != nil {
		return nil, err
	}
	if snap.Traits, err = r.traits(ctx); err != nil {
		return nil, err
	}
	if snap.Certifications, err = r.certifications(ctx); err != nil {
		return nil, err
	}
	if snap.Images, err = r.images(ctx); err != nil {
		return nil, err
	}
	if snap.ModelContexts, err = r.modelContexts(ctx); err != nil {
		return nil, err
	}
	if snap.CustomInstructions, err = r.customInstructions(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *ProfileRepo) bio(ctx context.Context) (*model.Bio, error) {
	const query = `SELECT display_name, headline, summary, location FROM bio WHERE id = 1`
	row := r.db.QueryRowContext(ctx, query)
	var bio model.Bio
	if err := row.Scan(&bio.DisplayName, &bio.Headline, &bio.Summary, &bio.Location); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &bio, nil
}

func (r *ProfileRepo) selectOrdered(ctx context.Context, table string, fields []string, scan func(*sql.Rows) error) error {
	sqlStr, args, err := builder.BuildSelect(table, map[string]interface{}{"_orderby": "position asc, id asc"}, fields)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *ProfileRepo) skills(ctx context.Context) ([]model.Skill, error) {
	var items []model.Skill
	err := r.selectOrdered(ctx, "skills", []string{"id", "grp", "name", "level", "position"}, func(rows *sql.Rows) error {
		var item model.Skill
		if err := rows.Scan(&item.ID, &item.Group, &item.Name, &item.Level, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) projects(ctx context.Context) ([]model.Project, error) {
	var items []model.Project
	err := r.selectOrdered(ctx, "projects", []string{"id", "title", "description", "tech_stack", "repo_url", "live_url", "position"}, func(rows *sql.Rows) error {
		var item model.Project
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.TechStack, &item.RepoURL, &item.LiveURL, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) experiences(ctx context.Context) ([]model.Experience, error) {
	var items []model.Experience
	err := r.selectOrdered(ctx, "experiences", []string{"id", "company", "role", "start_date", "end_date", "description", "position"}, func(rows *sql.Rows) error {
		var item model.Experience
		if err := rows.Scan(&item.ID, &item.Company, &item.Role, &item.StartDate, &item.EndDate, &item.Description, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) contacts(ctx context.Context) ([]model.Contact, error) {
	var items []model.Contact
	err := r.selectOrdered(ctx, "contacts", []string{"id", "grp", "label", "value", "position"}, func(rows *sql.Rows) error {
		var item model.Contact
		if err := rows.Scan(&item.ID, &item.Group, &item.Label, &item.Value, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) traits(ctx context.Context) ([]model.Trait, error) {
	var items []model.Trait
	err := r.selectOrdered(ctx, "traits", []string{"id", "name", "description", "position"}, func(rows *sql.Rows) error {
		var item model.Trait
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) certifications(ctx context.Context) ([]model.Certification, error) {
	var items []model.Certification
	err := r.selectOrdered(ctx, "certifications", []string{"id", "name", "issuer", "year", "position"}, func(rows *sql.Rows) error {
		var item model.Certification
		if err := rows.Scan(&item.ID, &item.Name, &item.Issuer, &item.Year, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) images(ctx context.Context) ([]model.GalleryImage, error) {
	var items []model.GalleryImage
	err := r.selectOrdered(ctx, "gallery_images", []string{"id", "title", "alt_text", "caption", "url", "position"}, func(rows *sql.Rows) error {
		var item model.GalleryImage
		if err := rows.Scan(&item.ID, &item.Title, &item.AltText, &item.Caption, &item.URL, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) modelContexts(ctx context.Context) ([]model.ModelContext, error) {
	var items []model.ModelContext
	err := r.selectOrdered(ctx, "model_contexts", []string{"id", "name", "content", "position"}, func(rows *sql.Rows) error {
		var item model.ModelContext
		if err := rows.Scan(&item.ID, &item.Name, &item.Content, &item.Position); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *ProfileRepo) customInstructions(ctx context.Context) (string, error) {
	const query = `SELECT content FROM custom_instructions WHERE id = 1`
	var content string
	if err := r.db.QueryRowContext(ctx, query).Scan(&content); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return content, nil
}
