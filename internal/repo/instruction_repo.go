package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	appErr "github.com/sudhakarkatam/foliochat/internal/pkg/errors"

	"github.com/sudhakarkatam/foliochat/internal/pkg/dbutil"
)

// InstructionRepo reads mutable prompt instructions. Rows are written by
// the external admin surface; this service only consumes them.
type InstructionRepo struct {
	db *sql.DB
}

func NewInstructionRepo(db *sql.DB) *InstructionRepo {
	return &InstructionRepo{db: db}
}

func (r *InstructionRepo) Get(ctx context.Context, scope string) (string, error) {
	where := map[string]interface{}{"scope": scope}
	sqlStr, args, err := builder.BuildSelect("instructions", where, []string{"content"})
	if err != nil {
		return "", err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var content string
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&content); err != nil {
		if err == sql.ErrNoRows {
			return "", appErr.ErrNotFound
		}
		return "", err
	}
	return content, nil
}
