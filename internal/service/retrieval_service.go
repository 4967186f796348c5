package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/sudhakarkatam/foliochat/internal/ai"
	"github.com/sudhakarkatam/foliochat/internal/model"
)

// VectorSearcher is the read side of the vector store.
type VectorSearcher interface {
	SearchTopK(ctx context.Context, query []float32, k int) ([]model.ScoredChunk, error)
}

// ProfileSource is the profile source of truth, used for the exhaustive
// fallback when ranked retrieval yields nothing usable.
type ProfileSource interface {
	Snapshot(ctx context.Context) (*model.ProfileSnapshot, error)
}

type RetrievalService struct {
	embedder   ai.IEmbedder
	store      VectorSearcher
	profiles   ProfileSource
	chunker    *ai.Chunker
	topK       int
	minScore   float32
	queryCache *expirable.LRU[string, []float32]
}

func NewRetrievalService(embedder ai.IEmbedder, store VectorSearcher, profiles ProfileSource, topK int, minScore float32) *RetrievalService {
	cache := expirable.NewLRU[string, []float32](2048, nil, 30*time.Minute)
	return &RetrievalService{
		embedder:   embedder,
		store:      store,
		profiles:   profiles,
		chunker:    ai.NewChunker(),
		topK:       topK,
		minScore:   minScore,
		queryCache: cache,
	}
}

// Retrieve ranks stored chunks against the query and returns the context
// text to inject into the prompt. It never fails: when ranking yields
// nothing usable (empty store, all scores below threshold, embedding
// failure) it falls back to an unranked full-profile context, trading
// precision for completeness.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (string, bool) {
	logger := logutil.GetLogger(ctx)
	ranked, err := s.rank(ctx, query)
	if err != nil {
		logger.Warn("ranked retrieval failed, using full context", zap.Error(err))
	}
	if len(ranked) > 0 {
		logger.Debug("ranked retrieval", zap.Int("chunks", len(ranked)), zap.Float32("top_score", ranked[0].Score))
		var sb strings.Builder
		for i, ch := range ranked {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(ch.Text)
		}
		return sb.String(), true
	}
	return s.fullContext(ctx), false
}

func (s *RetrievalService) rank(ctx context.Context, query string) ([]model.ScoredChunk, error) {
	queryEmb, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	results, err := s.store.SearchTopK(ctx, queryEmb, s.topK)
	if err != nil {
		return nil, err
	}
	// results arrive sorted by descending similarity, position-stable;
	// keep only those above the noise threshold
	filtered := results[:0]
	for _, item := range results {
		if item.Score >= s.minScore {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *RetrievalService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := cacheKey(query)
	if cached, ok := s.queryCache.Get(key); ok {
		return cached, nil
	}
	emb, err := s.embedder.Embed(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	s.queryCache.Add(key, emb)
	return emb, nil
}

// fullContext re-reads every entity from the source of truth and joins the
// derived chunks in chunker order. It must never be silently empty while
// profile data exists.
func (s *RetrievalService) fullContext(ctx context.Context) string {
	logger := logutil.GetLogger(ctx)
	snap, err := s.profiles.Snapshot(ctx)
	if err != nil {
		logger.Error("profile snapshot failed, context will be empty", zap.Error(err))
		return ""
	}
	chunks := s.chunker.Chunk(ctx, snap)
	var sb strings.Builder
	for i, ch := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ch.Text)
	}
	logger.Info("assembled fallback context", zap.Int("chunks", len(chunks)))
	return sb.String()
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
