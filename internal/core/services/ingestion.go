package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

type IngestionService struct {
	source ports.RecordSource
	store  ports.ArtifactStore
	schema *domain.Schema
}

func NewIngestionService(source ports.RecordSource, store ports.ArtifactStore, schema *domain.Schema) *IngestionService {
	return &IngestionService{source: source, store: store, schema: schema}
}

// Run exports the collection into the feature store and splits it into
// train and test partitions.
func (s *IngestionService) Run(ctx context.Context, cfg domain.IngestionConfig) (*domain.IngestionArtifact, error) {
	frame, err := s.source.FetchAll(ctx, cfg.Collection)
	if err != nil {
		if errors.Is(err, domain.ErrDataAccess) || errors.Is(err, domain.ErrConnection) {
			return nil, err
		}
		return nil, &domain.DataAccessError{Source: cfg.Collection, Err: err}
	}

	frame = frame.Drop(s.schema.DropColumns...)
	if frame.Len() < 2 {
		return nil, &domain.DataAccessError{Source: cfg.Collection, Err: domain.ErrEmptySource}
	}

	if err := s.store.WriteFrame(cfg.FeatureStorePath, frame); err != nil {
		return nil, fmt.Errorf("write feature store: %w", err)
	}

	trainIdx, testIdx := ml.SplitIndices(frame.Len(), cfg.TestRatio, cfg.Seed)
	train, test := frame.Take(trainIdx), frame.Take(testIdx)

	if err := s.store.WriteFrame(cfg.TrainPath, train); err != nil {
		return nil, fmt.Errorf("write train partition: %w", err)
	}
	if err := s.store.WriteFrame(cfg.TestPath, test); err != nil {
		return nil, fmt.Errorf("write test partition: %w", err)
	}

	log.WithFields(log.Fields{
		"collection":   cfg.Collection,
		ml.SamplesKey:  frame.Len(),
		"train_rows":   train.Len(),
		"test_rows":    test.Len(),
		"feature_path": cfg.FeatureStorePath,
	}).Info("data ingested")

	return &domain.IngestionArtifact{
		FeatureStorePath: cfg.FeatureStorePath,
		TrainPath:        cfg.TrainPath,
		TestPath:         cfg.TestPath,
		TrainRows:        train.Len(),
		TestRows:         test.Len(),
	}, nil
}
