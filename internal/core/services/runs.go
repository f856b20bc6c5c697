package services

import (
	"context"

	"github.com/google/uuid"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
)

const (
	defaultRunPageSize = 20
	maxRunPageSize     = 100
)

type RunService struct {
	repo ports.RunRepository
}

func NewRunService(repo ports.RunRepository) *RunService {
	return &RunService{repo: repo}
}

func (s *RunService) Get(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RunService) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	return s.repo.List(ctx, PageFilter(filter))
}

// PageFilter applies the default and maximum page size and floors the offset.
func PageFilter(filter ports.RunListFilter) ports.RunListFilter {
	if filter.Limit <= 0 {
		filter.Limit = defaultRunPageSize
	}
	if filter.Limit > maxRunPageSize {
		filter.Limit = maxRunPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
