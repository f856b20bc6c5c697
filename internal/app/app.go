package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/adapters/secondary/kubernetes"
	"vehicle-insurance-mlops/internal/adapters/secondary/localfs"
	"vehicle-insurance-mlops/internal/adapters/secondary/lock"
	"vehicle-insurance-mlops/internal/adapters/secondary/memory"
	"vehicle-insurance-mlops/internal/adapters/secondary/mongodb"
	"vehicle-insurance-mlops/internal/adapters/secondary/postgres"
	"vehicle-insurance-mlops/internal/adapters/secondary/prometheus"
	"vehicle-insurance-mlops/internal/adapters/secondary/s3"
	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
	output "vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/core/services"
	"vehicle-insurance-mlops/internal/telemetry"
)

// App holds the wired services shared by the server and the pipeline CLI.
type App struct {
	Config     *config.Config
	Schema     *domain.Schema
	Metrics    *prometheus.Recorder
	Pipeline   *services.PipelineService
	Prediction *services.PredictionService
	Runs       *services.RunService

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Metrics: prometheus.NewRecorder()}

	schema, err := config.LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	a.Schema = schema

	a.closers = append(a.closers, telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	source := mongodb.NewLazyRecordSource(cfg.Mongo)
	a.closers = append(a.closers, source.Close)

	artifacts := localfs.NewArtifactStore()

	registry, err := newRegistry(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	runRepo, err := a.newRunRepository(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	trainingLock, err := newTrainingLock(cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	// Kubernetes rollout (Optional - based on config)
	var rollout output.RolloutNotifier
	if cfg.Kubernetes.Enabled {
		notifier, err := kubernetes.NewRolloutNotifier(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("Kubernetes client init failed (continuing without rollout restarts): %v", err)
		} else {
			rollout = notifier
			log.Info("Kubernetes rollout notifier initialized")
		}
	} else {
		log.Info("Kubernetes integration disabled")
	}

	// Core Services (Application Layer)
	stages := services.PipelineStages{
		Ingestion:      services.NewIngestionService(source, artifacts, schema),
		Validation:     services.NewValidationService(artifacts, schema),
		Transformation: services.NewTransformationService(artifacts, schema),
		Trainer:        services.NewTrainerService(artifacts, schema),
		Evaluation:     services.NewEvaluationService(registry, artifacts),
		Pusher:         services.NewPusherService(registry, artifacts),
	}
	a.Pipeline = services.NewPipelineService(cfg.Pipeline, stages, trainingLock, runRepo, rollout, a.Metrics)
	a.Prediction = services.NewPredictionService(registry, cfg.Pipeline.RegistryKey(), a.Metrics)
	a.Runs = services.NewRunService(runRepo)

	a.Pipeline.OnPush(func(ctx context.Context, _ *domain.RegistryEntry) error {
		return a.Prediction.Reload(ctx)
	})

	return a, nil
}

// Close releases every connection opened by New, in reverse order.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.WithError(err).Warn("shutdown step failed")
		}
	}
	a.closers = nil
}

func newRegistry(ctx context.Context, cfg *config.Config) (output.ObjectStore, error) {
	if cfg.Registry.Backend == config.RegistryBackendLocal {
		log.WithField("dir", cfg.Registry.LocalDir).Info("using local model registry")
		return localfs.NewObjectStore(cfg.Registry.LocalDir), nil
	}

	store, err := s3.NewObjectStore(ctx, &cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("create s3 registry: %w", err)
	}
	log.WithField("bucket", cfg.S3.Bucket).Info("using s3 model registry")
	return store, nil
}

func (a *App) newRunRepository(ctx context.Context, cfg *config.Config) (output.RunRepository, error) {
	if cfg.Database.URL == "" {
		log.Info("DATABASE_URL not set, keeping pipeline run history in memory")
		return memory.NewPipelineRunRepository(), nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })

	if err := pool.Ping(ctx); err != nil {
		return nil, &domain.ConnectionError{Resource: "postgres", Err: err}
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}
	log.Info("database connection established")
	return postgres.NewPipelineRunRepository(pool), nil
}

func newTrainingLock(cfg *config.Config) (output.TrainingLock, error) {
	if cfg.Redis.URL == "" {
		return lock.NewLocalLock(), nil
	}
	l, err := lock.NewRedisLock(cfg.Redis.URL, cfg.Redis.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("create training lock: %w", err)
	}
	log.Info("using redis training lock")
	return l, nil
}

// InitLogger applies the configured logrus level and format.
func InitLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
