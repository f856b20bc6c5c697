package ports

import "context"

// RolloutNotifier asks the serving platform to restart prediction replicas
// so they load the newly pushed model.
type RolloutNotifier interface {
	Restart(ctx context.Context, reason string) error

	// IsAvailable checks if the integration is enabled and configured
	IsAvailable() bool
}
