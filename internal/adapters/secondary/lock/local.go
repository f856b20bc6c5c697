package lock

import (
	"context"
	"sync"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

type localLock struct {
	mu sync.Mutex
}

// NewLocalLock serializes training runs within one process.
func NewLocalLock() ports.TrainingLock {
	return &localLock{}
}

func (l *localLock) TryAcquire(ctx context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrTrainingInProgress
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}
