package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

type PusherService struct {
	registry ports.ObjectStore
	store    ports.ArtifactStore
	now      func() time.Time
}

func NewPusherService(registry ports.ObjectStore, store ports.ArtifactStore) *PusherService {
	return &PusherService{registry: registry, store: store, now: time.Now}
}

// Run overwrites the registry slot with the accepted candidate. Rejected
// candidates leave the slot untouched.
func (s *PusherService) Run(ctx context.Context, in *domain.EvaluationArtifact, cfg domain.PusherConfig, runID string) (*domain.PusherArtifact, error) {
	if !in.Accepted {
		log.WithField("reason", in.Reason).Info("candidate rejected, registry unchanged")
		return &domain.PusherArtifact{Pushed: false, Key: cfg.RegistryKey}, nil
	}

	// a model registered after evaluation was never compared against
	exists, err := s.registry.Exists(ctx, cfg.RegistryKey)
	if err != nil {
		return nil, err
	}
	if exists && !in.HasExisting {
		return nil, fmt.Errorf("push %s: %w", cfg.RegistryKey, domain.ErrRegistryChanged)
	}

	var model ml.InferenceModel
	if err := s.store.ReadJSON(in.ModelPath, &model); err != nil {
		return nil, fmt.Errorf("read trained model: %w", err)
	}

	entry := &domain.RegistryEntry{
		Version:    in.ExistingVersion + 1,
		RunID:      runID,
		MetricName: in.MetricName,
		Metric:     in.CandidateScore,
		PushedAt:   s.now().UTC(),
	}
	model.Registry = entry

	body, err := ml.EncodeModel(&model)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Put(ctx, cfg.RegistryKey, body); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"key":        cfg.RegistryKey,
		"version":    entry.Version,
		ml.MetricKey: entry.MetricName,
		ml.ScoreKey:  entry.Metric,
	}).Info("model pushed")

	return &domain.PusherArtifact{Pushed: true, Key: cfg.RegistryKey, Entry: entry}, nil
}
