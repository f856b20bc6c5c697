package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/telemetry"
)

// PipelineStages groups the six stage services run in order.
type PipelineStages struct {
	Ingestion      *IngestionService
	Validation     *ValidationService
	Transformation *TransformationService
	Trainer        *TrainerService
	Evaluation     *EvaluationService
	Pusher         *PusherService
}

// PushHook runs after a candidate has been written to the registry slot.
type PushHook func(ctx context.Context, entry *domain.RegistryEntry) error

type PipelineService struct {
	settings domain.PipelineSettings
	stages   PipelineStages
	lock     ports.TrainingLock
	runs     ports.RunRepository   // optional
	rollout  ports.RolloutNotifier // optional
	metrics  ports.MetricsRecorder // optional
	tracer   trace.Tracer
	hooks    []PushHook
	now      func() time.Time
}

func NewPipelineService(settings domain.PipelineSettings, stages PipelineStages, lock ports.TrainingLock, runs ports.RunRepository, rollout ports.RolloutNotifier, metrics ports.MetricsRecorder) *PipelineService {
	return &PipelineService{
		settings: settings,
		stages:   stages,
		lock:     lock,
		runs:     runs,
		rollout:  rollout,
		metrics:  metrics,
		tracer:   telemetry.Tracer(),
		now:      time.Now,
	}
}

// OnPush registers a hook called after every successful push.
func (s *PipelineService) OnPush(hook PushHook) {
	s.hooks = append(s.hooks, hook)
}

// Run executes ingestion through push once. Concurrent calls are rejected
// with domain.ErrTrainingInProgress. The returned run is populated even
// when the pipeline fails.
func (s *PipelineService) Run(ctx context.Context) (*domain.PipelineRun, error) {
	release, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg := domain.NewRunConfig(s.settings, uuid.New(), s.now())
	run := &domain.PipelineRun{
		ID:          cfg.RunID,
		StartedAt:   s.now(),
		Status:      domain.RunStatusRunning,
		ArtifactDir: cfg.ArtifactRoot,
		MetricName:  s.settings.Trainer.Metric,
	}
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			log.WithError(err).Warn("failed to record pipeline run")
		}
	}

	ctx, span := s.tracer.Start(ctx, "training_pipeline", trace.WithAttributes(
		attribute.String("run.id", run.ID.String()),
	))
	defer span.End()

	logger := log.WithFields(log.Fields{"run_id": run.ID, "artifact_dir": cfg.ArtifactRoot})
	logger.Info("training pipeline started")

	status, err := s.execute(ctx, cfg, run)
	run.Finish(status, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WithError(err).WithField("stage", run.Stage).Error("training pipeline failed")
	} else {
		logger.WithField("status", status).Info("training pipeline finished")
	}

	if s.runs != nil {
		if uerr := s.runs.Update(context.WithoutCancel(ctx), run); uerr != nil {
			log.WithError(uerr).Warn("failed to update pipeline run")
		}
	}
	if s.metrics != nil {
		s.metrics.RecordRun(status)
	}
	return run, err
}

func (s *PipelineService) execute(ctx context.Context, cfg domain.RunConfig, run *domain.PipelineRun) (domain.RunStatus, error) {
	runID := cfg.RunID.String()

	var ingestion *domain.IngestionArtifact
	err := s.stage(ctx, run, domain.StageIngestion, func(ctx context.Context) (err error) {
		ingestion, err = s.stages.Ingestion.Run(ctx, cfg.Ingestion)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}

	var validation *domain.ValidationArtifact
	err = s.stage(ctx, run, domain.StageValidation, func(ctx context.Context) (err error) {
		validation, err = s.stages.Validation.Run(ingestion, cfg.Validation)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}

	var transformation *domain.TransformationArtifact
	err = s.stage(ctx, run, domain.StageTransformation, func(ctx context.Context) (err error) {
		transformation, err = s.stages.Transformation.Run(validation, cfg.Transformation)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}

	var trained *domain.TrainerArtifact
	err = s.stage(ctx, run, domain.StageTrainer, func(ctx context.Context) (err error) {
		trained, err = s.stages.Trainer.Run(transformation, cfg.Trainer, runID)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}
	run.CandidateScore = trained.Score

	var evaluation *domain.EvaluationArtifact
	err = s.stage(ctx, run, domain.StageEvaluation, func(ctx context.Context) (err error) {
		evaluation, err = s.stages.Evaluation.Run(ctx, trained, cfg.Evaluation)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}
	run.ExistingScore = evaluation.ExistingScore
	run.Delta = evaluation.Delta
	run.Accepted = evaluation.Accepted
	if s.metrics != nil {
		s.metrics.RecordDecision(evaluation.Accepted)
	}

	var pushed *domain.PusherArtifact
	err = s.stage(ctx, run, domain.StagePusher, func(ctx context.Context) (err error) {
		pushed, err = s.stages.Pusher.Run(ctx, evaluation, cfg.Pusher, runID)
		return err
	})
	if err != nil {
		return domain.RunStatusFailed, err
	}

	if !pushed.Pushed {
		return domain.RunStatusRejected, nil
	}
	run.RegistryVersion = pushed.Entry.Version
	s.afterPush(ctx, pushed.Entry)
	return domain.RunStatusSucceeded, nil
}

// stage runs fn inside its own span and records its duration.
func (s *PipelineService) stage(ctx context.Context, run *domain.PipelineRun, name string, fn func(context.Context) error) error {
	run.Stage = name
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveStage(name, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}

	log.WithFields(log.Fields{
		"run_id":   run.ID,
		"stage":    name,
		"duration": elapsed.String(),
	}).Info("stage completed")
	return nil
}

// afterPush restarts serving replicas and runs push hooks. Failures here
// do not fail a run whose model is already in the registry.
func (s *PipelineService) afterPush(ctx context.Context, entry *domain.RegistryEntry) {
	if s.rollout != nil && s.rollout.IsAvailable() {
		reason := fmt.Sprintf("model version %d from run %s", entry.Version, entry.RunID)
		if err := s.rollout.Restart(ctx, reason); err != nil {
			log.WithError(err).Warn("failed to restart prediction replicas")
		}
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, entry); err != nil {
			log.WithError(err).Warn("push hook failed")
		}
	}
}
