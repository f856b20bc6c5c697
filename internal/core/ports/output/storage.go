package ports

import (
	"context"

	"vehicle-insurance-mlops/internal/core/domain"
)

// RecordSource reads every document of a collection into a frame.
type RecordSource interface {
	FetchAll(ctx context.Context, collection string) (*domain.Frame, error)
}

// ObjectStore is the remote storage holding the model registry slot.
// Get returns domain.ErrObjectNotFound for a missing key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ArtifactStore persists stage outputs under path-addressable locations.
type ArtifactStore interface {
	WriteFrame(path string, frame *domain.Frame) error
	ReadFrame(path string) (*domain.Frame, error)
	WriteMatrix(path string, rows [][]float64) error
	ReadMatrix(path string) ([][]float64, error)
	WriteJSON(path string, v any) error
	ReadJSON(path string, v any) error
}
