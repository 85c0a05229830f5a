package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaperEmbedding struct {
	Id         uuid.UUID
	JobId      uuid.UUID
	ArxivId    string
	Document   string
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
}
