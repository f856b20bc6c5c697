package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

type TransformationService struct {
	store  ports.ArtifactStore
	schema *domain.Schema
}

func NewTransformationService(store ports.ArtifactStore, schema *domain.Schema) *TransformationService {
	return &TransformationService{store: store, schema: schema}
}

// Run fits the transformer on the train partition, encodes both partitions
// with it and oversamples the train partition only.
func (s *TransformationService) Run(in *domain.ValidationArtifact, cfg domain.TransformationConfig) (*domain.TransformationArtifact, error) {
	if !in.Valid {
		return nil, &domain.SchemaValidationError{Violations: in.Violations}
	}

	train, err := s.store.ReadFrame(in.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("read train partition: %w", err)
	}
	test, err := s.store.ReadFrame(in.TestPath)
	if err != nil {
		return nil, fmt.Errorf("read test partition: %w", err)
	}

	transformer, err := ml.FitTransformer(s.schema, train)
	if err != nil {
		return nil, err
	}

	Xtrain, ytrain, err := transformer.TransformFrame(train)
	if err != nil {
		return nil, fmt.Errorf("transform train partition: %w", err)
	}
	Xtest, ytest, err := transformer.TransformFrame(test)
	if err != nil {
		return nil, fmt.Errorf("transform test partition: %w", err)
	}

	before := len(Xtrain)
	Xtrain, ytrain = ml.Oversample(Xtrain, ytrain, cfg.Seed)

	if err := s.store.WriteMatrix(cfg.TrainPath, withLabels(Xtrain, ytrain)); err != nil {
		return nil, fmt.Errorf("write transformed train: %w", err)
	}
	if err := s.store.WriteMatrix(cfg.TestPath, withLabels(Xtest, ytest)); err != nil {
		return nil, fmt.Errorf("write transformed test: %w", err)
	}
	if err := s.store.WriteJSON(cfg.TransformerPath, transformer); err != nil {
		return nil, fmt.Errorf("write transformer: %w", err)
	}

	log.WithFields(log.Fields{
		ml.SamplesKey:  len(Xtrain),
		ml.FeaturesKey: transformer.Width(),
		"oversampled":  len(Xtrain) - before,
		"test_rows":    len(Xtest),
	}).Info("data transformed")

	return &domain.TransformationArtifact{
		TransformerPath: cfg.TransformerPath,
		TrainPath:       cfg.TrainPath,
		TestPath:        cfg.TestPath,
		RawTestPath:     in.TestPath,
		TrainRows:       len(Xtrain),
		TestRows:        len(Xtest),
		Features:        transformer.Width(),
	}, nil
}

// withLabels appends each label as the last column of its row.
func withLabels(X [][]float64, y []float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row)+1)
		copy(r, row)
		r[len(row)] = y[i]
		out[i] = r
	}
	return out
}

// splitLabels is the inverse of withLabels.
func splitLabels(rows [][]float64) ([][]float64, []float64, error) {
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		if len(r) < 2 {
			return nil, nil, fmt.Errorf("row %d has %d values, want features and a label", i, len(r))
		}
		X[i] = r[:len(r)-1]
		y[i] = r[len(r)-1]
	}
	return X, y, nil
}
