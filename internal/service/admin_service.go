package service

import (
	"context"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/pkg/index"
)

type IAdminService interface {
	// ResetVectorDb wipes every stored chunk embedding.
	ResetVectorDb(ctx context.Context) (*dto.ResetVectorDbResponse, error)
	// GetLogs reads back recent structured log entries, newest first.
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	indexer *index.Indexer
	log     logger.ILogger
}

func NewAdminService(indexer *index.Indexer, log logger.ILogger) IAdminService {
	return &adminService{
		indexer: indexer,
		log:     log,
	}
}

func (s *adminService) ResetVectorDb(ctx context.Context) (*dto.ResetVectorDbResponse, error) {
	if err := s.indexer.Reset(ctx); err != nil {
		return nil, err
	}

	s.log.Warn("admin", "Vector store reset", nil)

	return &dto.ResetVectorDbResponse{
		Message: "Vector store cleared",
	}, nil
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.log.GetLogs(level, limit, offset)
}
