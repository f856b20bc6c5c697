package ports

import (
	"context"

	"github.com/google/uuid"

	"vehicle-insurance-mlops/internal/core/domain"
)

type RunListFilter struct {
	Status string
	Limit  int
	Offset int
}

// RunRepository stores the audit trail of pipeline runs.
type RunRepository interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	Update(ctx context.Context, run *domain.PipelineRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)
	List(ctx context.Context, filter RunListFilter) ([]*domain.PipelineRun, int, error)
}
