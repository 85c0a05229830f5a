package implementation

import (
	"context"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/mapper"
	"paper-digest-be/internal/model"
	"paper-digest-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PaperEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaperEmbeddingMapper
}

func NewPaperEmbeddingRepository(db *gorm.DB) contract.PaperEmbeddingRepository {
	return &PaperEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaperEmbeddingMapper(),
	}
}

func (r *PaperEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PaperEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := r.mapper.ToModels(embeddings)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PaperEmbeddingRepositoryImpl) DeleteByJobId(ctx context.Context, jobId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("job_id = ?", jobId).Delete(&model.PaperEmbedding{}).Error
}

func (r *PaperEmbeddingRepositoryImpl) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE paper_embeddings").Error
}

func (r *PaperEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, jobId uuid.UUID, limit int, threshold float64) ([]*contract.ScoredPaperEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// pgvector cosine distance, scoped to the job so retrieval never bleeds
	// across papers that share vocabulary. Cosine distance is 1 - cosine
	// similarity, so similarity is recovered with one subtraction.
	type result struct {
		model.PaperEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("paper_embeddings").
		Select("paper_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("job_id = ?", jobId).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPaperEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPaperEmbedding{
			Embedding:  r.mapper.ToEntity(&res.PaperEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
