package embedding

import "context"

// Task types hint the backend how the vector will be used. Retrieval quality
// for Gemini models improves noticeably when documents and queries are
// embedded with matching task types.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider turns a piece of text into a dense vector.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
