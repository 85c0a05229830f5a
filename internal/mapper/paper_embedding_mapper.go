package mapper

import (
	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type PaperEmbeddingMapper struct{}

func NewPaperEmbeddingMapper() *PaperEmbeddingMapper {
	return &PaperEmbeddingMapper{}
}

func (m *PaperEmbeddingMapper) ToEntity(e *model.PaperEmbedding) *entity.PaperEmbedding {
	if e == nil {
		return nil
	}

	return &entity.PaperEmbedding{
		Id:         e.Id,
		JobId:      e.JobId,
		ArxivId:    e.ArxivId,
		Document:   e.Document,
		Embedding:  e.EmbeddingValue.Slice(),
		ChunkIndex: e.ChunkIndex,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *PaperEmbeddingMapper) ToModel(e *entity.PaperEmbedding) *model.PaperEmbedding {
	if e == nil {
		return nil
	}

	return &model.PaperEmbedding{
		Id:             e.Id,
		JobId:          e.JobId,
		ArxivId:        e.ArxivId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *PaperEmbeddingMapper) ToModels(embeddings []*entity.PaperEmbedding) []*model.PaperEmbedding {
	models := make([]*model.PaperEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
