package index

import (
	"context"
	"strings"
	"testing"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/repository/contract"

	"github.com/google/uuid"
)

type fakeProvider struct{}

func (fakeProvider) Generate(_ context.Context, text string, _ string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

type fakeEmbeddingRepo struct {
	stored        []*entity.PaperEmbedding
	lastLimit     int
	lastThreshold float64
	deletedJobId  uuid.UUID
	results       []*contract.ScoredPaperEmbedding
}

func (r *fakeEmbeddingRepo) CreateBulk(_ context.Context, embeddings []*entity.PaperEmbedding) error {
	for _, e := range embeddings {
		e.Id = uuid.New()
	}
	r.stored = append(r.stored, embeddings...)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByJobId(_ context.Context, jobId uuid.UUID) error {
	r.deletedJobId = jobId
	return nil
}

func (r *fakeEmbeddingRepo) DeleteAll(context.Context) error {
	r.stored = nil
	return nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(_ context.Context, _ []float32, _ uuid.UUID, limit int, threshold float64) ([]*contract.ScoredPaperEmbedding, error) {
	r.lastLimit = limit
	r.lastThreshold = threshold
	return r.results, nil
}

func TestIndexTextStoresChunks(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	ix := NewIndexer(fakeProvider{}, repo, 10, 0)

	jobId := uuid.New()
	chunks, ids, err := ix.IndexText(context.Background(), jobId, "2401.12345", strings.Repeat("abcde ", 10))
	if err != nil {
		t.Fatalf("IndexText: %v", err)
	}

	if len(chunks) == 0 || len(ids) != len(chunks) {
		t.Fatalf("chunks = %d, ids = %d", len(chunks), len(ids))
	}
	if len(repo.stored) != len(chunks) {
		t.Errorf("stored = %d, want %d", len(repo.stored), len(chunks))
	}
	for i, e := range repo.stored {
		if e.JobId != jobId || e.ChunkIndex != i {
			t.Errorf("stored[%d] = job %s index %d", i, e.JobId, e.ChunkIndex)
		}
	}
}

func TestIndexTextEmptyInput(t *testing.T) {
	ix := NewIndexer(fakeProvider{}, &fakeEmbeddingRepo{}, 10, 0)

	if _, _, err := ix.IndexText(context.Background(), uuid.New(), "", ""); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestRetrievePassesSimilarityFloor(t *testing.T) {
	repo := &fakeEmbeddingRepo{
		results: []*contract.ScoredPaperEmbedding{
			{Embedding: &entity.PaperEmbedding{Document: "closest chunk"}, Similarity: 0.92},
			{Embedding: &entity.PaperEmbedding{Document: "next chunk"}, Similarity: 0.81},
		},
	}
	ix := NewIndexer(fakeProvider{}, repo, 10, 0)
	ix.MinSimilarity = 0.75

	docs, err := ix.Retrieve(context.Background(), uuid.New(), "query", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if repo.lastThreshold != 0.75 {
		t.Errorf("threshold = %v, want 0.75", repo.lastThreshold)
	}
	if repo.lastLimit != 3 {
		t.Errorf("limit = %d, want 3", repo.lastLimit)
	}
	if len(docs) != 2 || docs[0] != "closest chunk" || docs[1] != "next chunk" {
		t.Errorf("docs = %#v", docs)
	}
}

func TestRetrieveDefaultTopK(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	ix := NewIndexer(fakeProvider{}, repo, 10, 0)

	if _, err := ix.Retrieve(context.Background(), uuid.New(), "query", 0); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if repo.lastLimit != DefaultTopK {
		t.Errorf("limit = %d, want %d", repo.lastLimit, DefaultTopK)
	}
}

func TestCleanupReleasesJobVectors(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	ix := NewIndexer(fakeProvider{}, repo, 10, 0)

	jobId := uuid.New()
	if err := ix.Cleanup(context.Background(), jobId); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if repo.deletedJobId != jobId {
		t.Errorf("deleted job id = %s, want %s", repo.deletedJobId, jobId)
	}
}
