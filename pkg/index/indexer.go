package index

import (
	"context"
	"fmt"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/repository/contract"
	"paper-digest-be/pkg/embedding"
	"paper-digest-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
)

// Indexer chunks paper text, embeds each chunk and persists the vectors so
// later stages can retrieve grounded context.
type Indexer struct {
	provider  embedding.EmbeddingProvider
	repo      contract.PaperEmbeddingRepository
	chunkSize int
	overlap   int

	// MinSimilarity drops retrieved chunks below this cosine similarity.
	// Zero keeps every match.
	MinSimilarity float64
}

func NewIndexer(provider embedding.EmbeddingProvider, repo contract.PaperEmbeddingRepository, chunkSize, overlap int) *Indexer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}
	return &Indexer{
		provider:  provider,
		repo:      repo,
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// IndexText splits, embeds and stores the full text of one paper. Returns the
// chunks and the ids of their stored vectors in chunk order.
func (ix *Indexer) IndexText(ctx context.Context, jobId uuid.UUID, arxivId string, text string) ([]string, []string, error) {
	chunks := utils.SplitText(text, ix.chunkSize, ix.overlap)
	if len(chunks) == 0 {
		return nil, nil, fmt.Errorf("no chunks produced from %d characters", len(text))
	}

	embeddings := make([]*entity.PaperEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := ix.provider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, nil, fmt.Errorf("embed chunk %d/%d: %w", i+1, len(chunks), err)
		}
		embeddings = append(embeddings, &entity.PaperEmbedding{
			JobId:      jobId,
			ArxivId:    arxivId,
			Document:   chunk,
			Embedding:  vector,
			ChunkIndex: i,
		})
	}

	if err := ix.repo.CreateBulk(ctx, embeddings); err != nil {
		return nil, nil, fmt.Errorf("store embeddings: %w", err)
	}

	ids := make([]string, len(embeddings))
	for i, e := range embeddings {
		ids[i] = e.Id.String()
	}
	return chunks, ids, nil
}

// Retrieve embeds the query and returns the closest chunks of the given job,
// most similar first. Chunks below MinSimilarity are dropped.
func (ix *Indexer) Retrieve(ctx context.Context, jobId uuid.UUID, query string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := ix.provider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := ix.repo.SearchSimilarWithScore(ctx, vector, jobId, topK, ix.MinSimilarity)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	docs := make([]string, len(matches))
	for i, m := range matches {
		docs[i] = m.Embedding.Document
	}
	return docs, nil
}

// Cleanup releases the vectors of one job. Retrieval only ever runs within a
// job's own pipeline, so a finished job's vectors are scratch data.
func (ix *Indexer) Cleanup(ctx context.Context, jobId uuid.UUID) error {
	return ix.repo.DeleteByJobId(ctx, jobId)
}

// Reset drops every stored vector. Admin operation.
func (ix *Indexer) Reset(ctx context.Context) error {
	return ix.repo.DeleteAll(ctx)
}
