package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

func testSnapshot() *model.ProfileSnapshot {
	return &model.ProfileSnapshot{
		Bio: &model.Bio{
			DisplayName: "Sudhakar Katam",
			Headline:    "Full-stack developer",
			Summary:     "Builds **web applications** end to end.",
			Location:    "Hyderabad",
		},
		Skills: []model.Skill{
			{ID: "s1", Group: "Backend", Name: "Go", Level: "advanced"},
			{ID: "s2", Group: "Frontend", Name: "React"},
			{ID: "s3", Group: "Backend", Name: "Postgres", Level: "intermediate"},
		},
		Projects: []model.Project{
			{ID: "1", Title: "Personal Tracker Application", Description: "Habit tracking app.", LiveURL: "https://tracker.example.com"},
			{ID: "2", Title: "Guestbook", RepoURL: "https://github.com/example/guestbook"},
		},
		Experiences: []model.Experience{
			{ID: "e1", Company: "Acme", Role: "Engineer", StartDate: "2021", Description: "Built internal tools."},
		},
		Contacts: []model.Contact{
			{ID: "c1", Group: "Social", Label: "GitHub", Value: "https://github.com/example"},
			{ID: "c2", Group: "Direct", Label: "Email", Value: "me@example.com"},
		},
		Certifications: []model.Certification{
			{ID: "ct1", Name: "CKA", Issuer: "CNCF", Year: "2023"},
		},
		CustomInstructions: "Be friendly by default.\nTONE: concise and warm\nLINK POLICY:\nAlways share the live link first.",
	}
}

func TestChunk_Deterministic(t *testing.T) {
	ctx := context.Background()
	chunker := NewChunker()
	snap := testSnapshot()

	first := chunker.Chunk(ctx, snap)
	second := chunker.Chunk(ctx, snap)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].ID, second[i].ID)
		require.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestChunk_StableIDsAndSelfContainedText(t *testing.T) {
	chunks := NewChunker().Chunk(context.Background(), testSnapshot())
	byID := map[string]*model.Chunk{}
	for _, ch := range chunks {
		require.NotEmpty(t, ch.Text)
		byID[ch.ID] = ch
	}

	require.Contains(t, byID, "bio")
	require.Contains(t, byID, "skill-backend")
	require.Contains(t, byID, "skill-frontend")
	require.Contains(t, byID, "project-1")
	require.Contains(t, byID, "experience-e1")
	require.Contains(t, byID, "contact-social")
	require.Contains(t, byID, "certification-ct1")

	require.Contains(t, byID["project-1"].Text, "Personal Tracker Application")
	require.Contains(t, byID["skill-backend"].Text, "Go (advanced)")
	require.Contains(t, byID["skill-backend"].Text, "Postgres (intermediate)")
	// markdown flattened, no formatting noise in embedding input
	require.Contains(t, byID["bio"].Text, "web applications")
	require.NotContains(t, byID["bio"].Text, "**")
}

func TestChunk_CompositeProjectIndex(t *testing.T) {
	chunks := NewChunker().Chunk(context.Background(), testSnapshot())
	var index *model.Chunk
	for _, ch := range chunks {
		if ch.ID == "projects-index" {
			index = ch
		}
	}
	require.NotNil(t, index)
	require.Contains(t, index.Text, "Personal Tracker Application")
	require.Contains(t, index.Text, "Guestbook")
	require.Contains(t, index.Text, "https://tracker.example.com")
}

func TestChunk_CustomInstructionSections(t *testing.T) {
	chunks := NewChunker().Chunk(context.Background(), testSnapshot())
	ids := map[string]string{}
	for _, ch := range chunks {
		if ch.Type == model.ChunkTypeCustom {
			ids[ch.ID] = ch.Text
		}
	}
	require.Contains(t, ids, "custom-intro")
	require.Contains(t, ids, "custom-tone")
	require.Contains(t, ids, "custom-link-policy")
	require.Contains(t, ids["custom-tone"], "concise and warm")
	require.Contains(t, ids["custom-link-policy"], "live link first")
}

func TestChunk_OmitsEmptyEntities(t *testing.T) {
	snap := &model.ProfileSnapshot{
		Projects: []model.Project{{ID: "1", Title: "Solo"}},
		Images:   []model.GalleryImage{{ID: "i1", URL: "https://example.com/a.png"}},
	}
	chunks := NewChunker().Chunk(context.Background(), snap)
	for _, ch := range chunks {
		require.NotEqual(t, model.ChunkTypeImage, ch.Type, "caption-less image must be omitted")
		require.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
}

func TestSplitSections_HeaderRule(t *testing.T) {
	sections := splitSections("RULES: one\ntwo\nNOT a header: x\nSECOND HEADER:\nbody")
	require.Len(t, sections, 2)
	require.Equal(t, "RULES", sections[0].header)
	require.Equal(t, "one\ntwo\nNOT a header: x", sections[0].body)
	require.Equal(t, "SECOND HEADER", sections[1].header)
	require.Equal(t, "body", sections[1].body)
}
