package ports

import "context"

// TrainingLock serializes pipeline runs. TryAcquire never waits: it returns
// domain.ErrTrainingInProgress when another run holds the lock.
type TrainingLock interface {
	TryAcquire(ctx context.Context) (release func(), err error)
}
