package job

import (
	"context"

	"github.com/sudhakarkatam/foliochat/internal/service"
)

// EmbeddingRefreshJob rebuilds the vector store on a schedule so profile
// edits made directly in the database eventually reach retrieval without a
// manual refresh call.
type EmbeddingRefreshJob struct {
	embeddings *service.EmbeddingService
}

func NewEmbeddingRefreshJob(embeddings *service.EmbeddingService) *EmbeddingRefreshJob {
	return &EmbeddingRefreshJob{embeddings: embeddings}
}

func (j *EmbeddingRefreshJob) Name() string {
	return "embedding_refresh"
}

func (j *EmbeddingRefreshJob) Run(ctx context.Context) error {
	if j.embeddings == nil {
		return nil
	}
	_, err := j.embeddings.Refresh(ctx)
	return err
}
