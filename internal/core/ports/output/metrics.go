package ports

import (
	"time"

	"vehicle-insurance-mlops/internal/core/domain"
)

type MetricsRecorder interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
	RecordRun(status domain.RunStatus)
	RecordDecision(accepted bool)
	RecordPrediction(outcome string)
}
