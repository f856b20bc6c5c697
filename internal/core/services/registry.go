package services

import (
	"context"
	"errors"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

// loadRegistered fetches and decodes the model held in the registry slot.
// An empty slot yields domain.ErrModelNotRegistered.
func loadRegistered(ctx context.Context, registry ports.ObjectStore, key string) (*ml.InferenceModel, error) {
	exists, err := registry.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrModelNotRegistered
	}

	b, err := registry.Get(ctx, key)
	if errors.Is(err, domain.ErrObjectNotFound) {
		return nil, domain.ErrModelNotRegistered
	}
	if err != nil {
		return nil, err
	}

	model, err := ml.DecodeModel(b)
	if err != nil {
		return nil, &domain.DataAccessError{Source: key, Err: err}
	}
	return model, nil
}
