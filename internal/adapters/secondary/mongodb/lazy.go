package mongodb

import (
	"context"
	"sync"

	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

// LazyRecordSource connects on first use so the prediction service can
// start without MongoDB. A failed connection is retried on the next call.
type LazyRecordSource struct {
	cfg     config.MongoConfig
	connect func(context.Context, *config.MongoConfig) (ports.RecordSource, func(context.Context) error, error)

	mu     sync.Mutex
	source ports.RecordSource
	close  func(context.Context) error
}

func NewLazyRecordSource(cfg config.MongoConfig) *LazyRecordSource {
	return &LazyRecordSource{cfg: cfg, connect: NewRecordSource}
}

func (s *LazyRecordSource) FetchAll(ctx context.Context, collection string) (*domain.Frame, error) {
	src, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return src.FetchAll(ctx, collection)
}

func (s *LazyRecordSource) get(ctx context.Context) (ports.RecordSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		return s.source, nil
	}

	src, closeFn, err := s.connect(ctx, &s.cfg)
	if err != nil {
		return nil, err
	}
	s.source, s.close = src, closeFn
	return src, nil
}

// Close disconnects if a connection was ever made.
func (s *LazyRecordSource) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.close == nil {
		return nil
	}
	err := s.close(ctx)
	s.source, s.close = nil, nil
	return err
}
