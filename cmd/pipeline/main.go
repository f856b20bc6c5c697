package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/app"
	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
)

// Runs the training pipeline once. Exit code 0 means the run finished,
// including runs whose candidate was not accepted; 1 means it failed.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app.InitLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init application: %v", err)
	}

	run, runErr := a.Pipeline.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	a.Close(closeCtx)
	cancel()

	if runErr != nil {
		log.WithError(runErr).Error("pipeline failed")
		os.Exit(1)
	}

	fields := log.Fields{
		"run_id":    run.ID,
		"candidate": run.CandidateScore,
		"existing":  run.ExistingScore,
	}
	if run.Status == domain.RunStatusRejected {
		log.WithFields(fields).Info("pipeline finished, registry unchanged")
		return
	}
	fields["version"] = run.RegistryVersion
	log.WithFields(fields).Info("pipeline finished, model pushed")
}
