package contract

import (
	"context"

	"paper-digest-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredPaperEmbedding pairs a chunk with its cosine similarity to the query.
type ScoredPaperEmbedding struct {
	Embedding  *entity.PaperEmbedding
	Similarity float64 // 1.0 means identical direction
}

type PaperEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.PaperEmbedding) error
	// DeleteByJobId releases the vectors of one finished job.
	DeleteByJobId(ctx context.Context, jobId uuid.UUID) error
	// DeleteAll wipes the vector store. Admin reset only.
	DeleteAll(ctx context.Context) error
	// SearchSimilarWithScore returns the chunks of one job closest to the
	// query vector, most similar first, keeping only matches at or above the
	// similarity threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, jobId uuid.UUID, limit int, threshold float64) ([]*ScoredPaperEmbedding, error)
}
