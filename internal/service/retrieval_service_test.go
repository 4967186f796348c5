package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

type fakeSearcher struct {
	results []model.ScoredChunk
	err     error
}

func (f *fakeSearcher) SearchTopK(ctx context.Context, query []float32, k int) ([]model.ScoredChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

type fakeProfiles struct {
	snap *model.ProfileSnapshot
	err  error
}

func (f *fakeProfiles) Snapshot(ctx context.Context) (*model.ProfileSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func scored(id, text string, score float32) model.ScoredChunk {
	return model.ScoredChunk{
		Chunk: model.Chunk{ID: id, Text: text, Type: model.ChunkTypeProject},
		Score: score,
	}
}

func TestRetrieve_RankedResultsSortedAndFiltered(t *testing.T) {
	searcher := &fakeSearcher{results: []model.ScoredChunk{
		scored("project-1", "Personal Tracker Application details", 0.91),
		scored("skill-backend", "Backend skills", 0.74),
		scored("contact-social", "Social links", 0.40), // below threshold
	}}
	svc := NewRetrievalService(&fakeEmbedder{vector: []float32{1, 0}}, searcher, &fakeProfiles{}, 6, 0.55)

	text, ranked := svc.Retrieve(context.Background(), "tell me about the tracker app")
	require.True(t, ranked)
	require.Contains(t, text, "Personal Tracker Application")
	require.Contains(t, text, "Backend skills")
	require.NotContains(t, text, "Social links")
	// best match first
	require.Less(t,
		indexOf(text, "Personal Tracker Application"),
		indexOf(text, "Backend skills"),
	)
}

func TestRetrieve_EmptyStoreFallsBackToFullContext(t *testing.T) {
	profiles := &fakeProfiles{snap: &model.ProfileSnapshot{
		Projects: []model.Project{
			{ID: "1", Title: "Personal Tracker Application"},
			{ID: "2", Title: "Guestbook"},
		},
	}}
	svc := NewRetrievalService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeSearcher{}, profiles, 6, 0.55)

	text, ranked := svc.Retrieve(context.Background(), "what have you built?")
	require.False(t, ranked)
	// fallback contains every entity from the source of truth
	require.Contains(t, text, "Personal Tracker Application")
	require.Contains(t, text, "Guestbook")
}

func TestRetrieve_EmbeddingFailureFallsBack(t *testing.T) {
	profiles := &fakeProfiles{snap: &model.ProfileSnapshot{
		Projects: []model.Project{{ID: "1", Title: "Personal Tracker Application"}},
	}}
	svc := NewRetrievalService(&fakeEmbedder{err: errors.New("boom")}, &fakeSearcher{}, profiles, 6, 0.55)

	text, ranked := svc.Retrieve(context.Background(), "anything")
	require.False(t, ranked)
	require.Contains(t, text, "Personal Tracker Application")
}

func TestRetrieve_AllBelowThresholdFallsBack(t *testing.T) {
	searcher := &fakeSearcher{results: []model.ScoredChunk{
		scored("project-1", "irrelevant", 0.10),
	}}
	profiles := &fakeProfiles{snap: &model.ProfileSnapshot{
		Projects: []model.Project{{ID: "1", Title: "Personal Tracker Application"}},
	}}
	svc := NewRetrievalService(&fakeEmbedder{vector: []float32{1, 0}}, searcher, profiles, 6, 0.55)

	text, ranked := svc.Retrieve(context.Background(), "unrelated question")
	require.False(t, ranked)
	require.Contains(t, text, "Personal Tracker Application")
}

func TestRetrieve_QueryEmbeddingCached(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	searcher := &fakeSearcher{results: []model.ScoredChunk{scored("bio", "About me", 0.9)}}
	svc := NewRetrievalService(embedder, searcher, &fakeProfiles{}, 6, 0.55)

	svc.Retrieve(context.Background(), "same query")
	svc.Retrieve(context.Background(), "same query")
	require.Equal(t, 1, embedder.calls)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
