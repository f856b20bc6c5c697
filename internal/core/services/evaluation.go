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

type EvaluationService struct {
	registry ports.ObjectStore
	store    ports.ArtifactStore
}

func NewEvaluationService(registry ports.ObjectStore, store ports.ArtifactStore) *EvaluationService {
	return &EvaluationService{registry: registry, store: store}
}

// Run compares the candidate against the registered model. Rejection is a
// normal outcome and is reported through the artifact, not as an error.
func (s *EvaluationService) Run(ctx context.Context, in *domain.TrainerArtifact, cfg domain.EvaluationConfig) (*domain.EvaluationArtifact, error) {
	out := &domain.EvaluationArtifact{
		MetricName:     in.MetricName,
		CandidateScore: in.Score,
		ModelPath:      in.ModelPath,
	}

	existing, err := loadRegistered(ctx, s.registry, cfg.RegistryKey)
	switch {
	case errors.Is(err, domain.ErrModelNotRegistered):
	case err != nil:
		return nil, err
	default:
		out.HasExisting = true
		if out.ExistingScore, err = s.existingScore(existing, in); err != nil {
			return nil, err
		}
		if existing.Registry != nil {
			out.ExistingVersion = existing.Registry.Version
		}
	}

	out.Accepted, out.Delta = domain.AcceptCandidate(out.CandidateScore, out.ExistingScore, cfg.Margin, out.HasExisting)
	switch {
	case !out.HasExisting:
		out.Reason = "no model is registered"
	case out.Accepted:
		out.Reason = fmt.Sprintf("%s improved by %.4f (margin %.4f)", in.MetricName, out.Delta, cfg.Margin)
	default:
		out.Reason = fmt.Sprintf("%s changed by %.4f, below margin %.4f", in.MetricName, out.Delta, cfg.Margin)
	}

	log.WithFields(log.Fields{
		ml.MetricKey:       in.MetricName,
		"candidate_score":  out.CandidateScore,
		"existing_score":   out.ExistingScore,
		"existing_version": out.ExistingVersion,
		"delta":            out.Delta,
		"accepted":         out.Accepted,
	}).Info("model evaluated")

	return out, nil
}

// existingScore re-scores the registered model on the current test partition.
// If that is impossible the metric recorded at push time is used.
func (s *EvaluationService) existingScore(existing *ml.InferenceModel, in *domain.TrainerArtifact) (float64, error) {
	recorded, ok := existing.Metrics.Get(in.MetricName)
	if !ok {
		return 0, fmt.Errorf("evaluate: metric %q is not recorded for the registered model", in.MetricName)
	}

	test, err := s.store.ReadFrame(in.RawTestPath)
	if err == nil {
		var metrics domain.ClassificationMetrics
		if metrics, err = existing.Score(test); err == nil {
			score, _ := metrics.Get(in.MetricName)
			return score, nil
		}
	}

	log.WithError(err).WithField("recorded_score", recorded).
		Warn("could not re-score registered model, using recorded metric")
	return recorded, nil
}
