package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

// VectorRepo owns the chunk_embeddings rows. The refresh pipeline is the
// only writer; it bulk-deletes and re-inserts, so readers must tolerate a
// transiently empty table.
type VectorRepo struct {
	db  *sql.DB
	dim int
}

func NewVectorRepo(db *sql.DB, dim int) *VectorRepo {
	return &VectorRepo{db: db, dim: dim}
}

func (r *VectorRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chunk_embeddings`)
	return err
}

func (r *VectorRepo) Insert(ctx context.Context, emb *model.ChunkEmbedding) error {
	// a mismatched dimension row is never written
	if r.dim > 0 && len(emb.Embedding) != r.dim {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(emb.Embedding), r.dim)
	}
	const query = `
		INSERT INTO chunk_embeddings (chunk_id, chunk_type, title, content, embedding, position, mtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (chunk_id) DO UPDATE SET
			chunk_type = EXCLUDED.chunk_type,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			position = EXCLUDED.position,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query,
		emb.ChunkID,
		string(emb.Type),
		emb.Title,
		emb.Text,
		pgvector.NewVector(emb.Embedding),
		emb.Position,
		emb.Mtime,
	)
	return err
}

func (r *VectorRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunk_embeddings`).Scan(&count)
	return count, err
}

// SearchTopK returns the k nearest chunks by cosine similarity, ordered by
// descending score with ties broken by insertion position.
func (r *VectorRepo) SearchTopK(ctx context.Context, query []float32, k int) ([]model.ScoredChunk, error) {
	if r.dim > 0 && len(query) != r.dim {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(query), r.dim)
	}
	const sqlStr = `
		SELECT chunk_id, chunk_type, title, content, 1 - (embedding <=> $1) AS score
		FROM chunk_embeddings
		ORDER BY embedding <=> $1 ASC, position ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, sqlStr, pgvector.NewVector(query), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []model.ScoredChunk
	for rows.Next() {
		var item model.ScoredChunk
		var chunkType string
		if err := rows.Scan(&item.ID, &chunkType, &item.Title, &item.Text, &item.Score); err != nil {
			return nil, err
		}
		item.Type = model.ChunkType(chunkType)
		results = append(results, item)
	}
	return results, rows.Err()
}
