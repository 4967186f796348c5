package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/model"
)

// VectorWriter is the write side of the vector store.
type VectorWriter interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, emb *model.ChunkEmbedding) error
}

// EmbeddingService rebuilds the vector store from the profile source of
// truth. The store is bulk-deleted then repopulated row by row; live
// queries may observe the intermediate window, which the retriever's
// fallback path covers.
type EmbeddingService struct {
	profiles ProfileSource
	vectors  VectorWriter
	embedder ai.IEmbedder
	chunker  *ai.Chunker
	dim      int
	interval time.Duration
}

func NewEmbeddingService(profiles ProfileSource, vectors VectorWriter, embedder ai.IEmbedder, dim int, interval time.Duration) *EmbeddingService {
	return &EmbeddingService{
		profiles: profiles,
		vectors:  vectors,
		embedder: embedder,
		chunker:  ai.NewChunker(),
		dim:      dim,
		interval: interval,
	}
}

type RefreshStats struct {
	Total    int `json:"total"`
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
}

func (s *RefreshStats) String() string {
	return fmt.Sprintf("embedded %d of %d chunks (%d skipped)", s.Embedded, s.Total, s.Skipped)
}

// Refresh re-chunks the profile, re-embeds every chunk sequentially and
// replaces the store contents. One failing chunk is logged and skipped; the
// run only aborts on context cancellation or a store-level failure.
func (s *EmbeddingService) Refresh(ctx context.Context) (*RefreshStats, error) {
	logger := logutil.GetLogger(ctx)
	start := time.Now()

	snap, err := s.profiles.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("profile snapshot: %w", err)
	}
	chunks := s.chunker.Chunk(ctx, snap)
	stats := &RefreshStats{Total: len(chunks)}

	if err := s.vectors.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear vector store: %w", err)
	}

	now := time.Now().UnixMilli()
	for i, chunk := range chunks {
		// sequential on purpose: one in-flight embedding call at a time,
		// paced to respect upstream rate limits
		if i > 0 && s.interval > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(s.interval):
			}
		}
		emb, err := s.embedder.Embed(ctx, chunk.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			logger.Warn("embedding failed, chunk skipped", zap.String("chunk_id", chunk.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		if s.dim > 0 && len(emb) != s.dim {
			logger.Warn("embedding dimension mismatch, chunk skipped",
				zap.String("chunk_id", chunk.ID),
				zap.Int("got", len(emb)),
				zap.Int("want", s.dim),
			)
			stats.Skipped++
			continue
		}
		row := &model.ChunkEmbedding{
			ChunkID:   chunk.ID,
			Text:      chunk.Text,
			Type:      chunk.Type,
			Title:     chunk.Title,
			Embedding: emb,
			Position:  i,
			Mtime:     now,
		}
		if err := s.vectors.Insert(ctx, row); err != nil {
			logger.Warn("vector insert failed, chunk skipped", zap.String("chunk_id", chunk.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		stats.Embedded++
	}

	logger.Info("embedding refresh finished",
		zap.Int("total", stats.Total),
		zap.Int("embedded", stats.Embedded),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", time.Since(start)),
	)
	return stats, nil
}
