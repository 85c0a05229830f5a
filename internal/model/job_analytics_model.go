package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JobAnalytics is the durable record of one finished run. The in-memory job
// registry is ephemeral; this table is what dashboards query after restarts.
type JobAnalytics struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobId             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	ArxivId           string         `gorm:"type:varchar(32);index"`
	Status            string         `gorm:"type:varchar(32);not null;index"`
	NoveltyScore      *float64       `gorm:""`
	TokensUsed        int            `gorm:"default:0"`
	ProcessingSeconds float64        `gorm:"default:0"`
	StageTimings      datatypes.JSON `gorm:"type:jsonb"`
	ErrorMessage      *string        `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (JobAnalytics) TableName() string {
	return "job_analytics"
}
