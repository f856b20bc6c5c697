package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

const (
	PredictionOK           = "ok"
	PredictionInvalidInput = "invalid_input"
	PredictionNoModel      = "no_model"
	PredictionError        = "error"
)

// PredictionService serves the registered model. The model is loaded once
// per process, lazily if the slot was empty at startup, and replaced only by
// Reload. Readers never wait on a reload.
type PredictionService struct {
	registry ports.ObjectStore
	key      string
	metrics  ports.MetricsRecorder // optional

	model  atomic.Pointer[ml.InferenceModel]
	loadMu sync.Mutex
}

func NewPredictionService(registry ports.ObjectStore, key string, metrics ports.MetricsRecorder) *PredictionService {
	return &PredictionService{registry: registry, key: key, metrics: metrics}
}

// Model returns the cached model, loading it from the registry on first use.
func (s *PredictionService) Model(ctx context.Context) (*ml.InferenceModel, error) {
	if m := s.model.Load(); m != nil {
		return m, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if m := s.model.Load(); m != nil {
		return m, nil
	}
	return s.load(ctx)
}

// Loaded reports whether a model is cached.
func (s *PredictionService) Loaded() bool {
	return s.model.Load() != nil
}

// Reload replaces the cached model with the current registry slot.
func (s *PredictionService) Reload(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	_, err := s.load(ctx)
	return err
}

func (s *PredictionService) load(ctx context.Context) (*ml.InferenceModel, error) {
	m, err := loadRegistered(ctx, s.registry, s.key)
	if err != nil {
		return nil, err
	}
	s.model.Store(m)

	fields := log.Fields{ml.ModelNameKey: m.Name, "run_id": m.RunID, "key": s.key}
	if m.Registry != nil {
		fields["version"] = m.Registry.Version
	}
	log.WithFields(fields).Info("prediction model loaded")
	return m, nil
}

// Predict classifies a single feature record and returns the model that
// produced the prediction.
func (s *PredictionService) Predict(ctx context.Context, rec map[string]string) (ml.Prediction, *ml.InferenceModel, error) {
	m, err := s.Model(ctx)
	if err != nil {
		s.record(err)
		return ml.Prediction{}, nil, err
	}

	p, err := m.Predict(rec)
	s.record(err)
	if err != nil {
		return ml.Prediction{}, nil, err
	}
	return p, m, nil
}

func (s *PredictionService) record(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordPrediction(PredictionOK)
	case errors.Is(err, domain.ErrPredictionInput):
		s.metrics.RecordPrediction(PredictionInvalidInput)
	case errors.Is(err, domain.ErrModelNotRegistered):
		s.metrics.RecordPrediction(PredictionNoModel)
	default:
		s.metrics.RecordPrediction(PredictionError)
	}
}
