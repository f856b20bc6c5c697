package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

type pipelineRunRepo struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]domain.PipelineRun
}

// NewPipelineRunRepository keeps run history for the lifetime of the process.
func NewPipelineRunRepository() ports.RunRepository {
	return &pipelineRunRepo{runs: make(map[uuid.UUID]domain.PipelineRun)}
}

func (r *pipelineRunRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *pipelineRunRepo) Update(ctx context.Context, run *domain.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return domain.ErrRunNotFound
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *pipelineRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (r *pipelineRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.PipelineRun, 0, len(r.runs))
	for _, run := range r.runs {
		if filter.Status != "" && string(run.Status) != filter.Status {
			continue
		}
		run := run
		matched = append(matched, &run)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*domain.PipelineRun{}, total, nil
	}
	end := total
	if filter.Limit > 0 && filter.Offset+filter.Limit < total {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}
