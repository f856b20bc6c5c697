package services

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

type TrainerService struct {
	store  ports.ArtifactStore
	schema *domain.Schema
	now    func() time.Time
}

func NewTrainerService(store ports.ArtifactStore, schema *domain.Schema) *TrainerService {
	return &TrainerService{store: store, schema: schema, now: time.Now}
}

// Run fits the estimator, scores it on the test partition and writes the
// inference bundle. A score below the expected floor fails the run.
func (s *TrainerService) Run(in *domain.TransformationArtifact, cfg domain.TrainerConfig, runID string) (*domain.TrainerArtifact, error) {
	trainRows, err := s.store.ReadMatrix(in.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("read transformed train: %w", err)
	}
	testRows, err := s.store.ReadMatrix(in.TestPath)
	if err != nil {
		return nil, fmt.Errorf("read transformed test: %w", err)
	}
	var transformer ml.Transformer
	if err := s.store.ReadJSON(in.TransformerPath, &transformer); err != nil {
		return nil, fmt.Errorf("read transformer: %w", err)
	}

	Xtrain, ytrain, err := splitLabels(trainRows)
	if err != nil {
		return nil, fmt.Errorf("transformed train: %w", err)
	}
	Xtest, ytest, err := splitLabels(testRows)
	if err != nil {
		return nil, fmt.Errorf("transformed test: %w", err)
	}

	estimator, err := ml.FitLogisticRegression(Xtrain, ytrain, ml.TrainParams{
		LearningRate: cfg.LearningRate,
		Epochs:       cfg.Epochs,
		L2:           cfg.L2,
		Threshold:    cfg.DecisionThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", ml.ModelName, err)
	}

	metrics := ml.Evaluate(ytest, estimator.PredictAll(Xtest))
	score, ok := metrics.Get(cfg.Metric)
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", cfg.Metric)
	}

	logger := log.WithFields(log.Fields{
		ml.ModelNameKey: ml.ModelName,
		ml.SamplesKey:   len(Xtrain),
		ml.FeaturesKey:  transformer.Width(),
		ml.MetricKey:    cfg.Metric,
		ml.ScoreKey:     score,
		"accuracy":      metrics.Accuracy,
	})

	if score < cfg.ExpectedScore {
		logger.Warn("model scored below the expected score")
		return nil, &domain.TrainingError{Metric: cfg.Metric, Score: score, Threshold: cfg.ExpectedScore}
	}

	model := &ml.InferenceModel{
		Name:        ml.ModelName,
		RunID:       runID,
		TrainedAt:   s.now().UTC(),
		Schema:      *s.schema,
		Transformer: &transformer,
		Estimator:   estimator,
		MetricName:  cfg.Metric,
		Metrics:     metrics,
	}
	if err := s.store.WriteJSON(cfg.ModelPath, model); err != nil {
		return nil, fmt.Errorf("write model: %w", err)
	}

	logger.Info("model trained")

	return &domain.TrainerArtifact{
		ModelPath:   cfg.ModelPath,
		RawTestPath: in.RawTestPath,
		MetricName:  cfg.Metric,
		Score:       score,
		Metrics:     metrics,
	}, nil
}
