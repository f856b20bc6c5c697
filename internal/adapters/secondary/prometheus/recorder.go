package prometheus

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

// Recorder exposes pipeline and prediction metrics on its own registry.
type Recorder struct {
	registry    *prom.Registry
	runs        *prom.CounterVec
	stageTime   *prom.HistogramVec
	decisions   *prom.CounterVec
	predictions *prom.CounterVec
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prom.NewRegistry(),
		runs: prom.NewCounterVec(
			prom.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Total number of training pipeline runs by final status",
			},
			[]string{"status"},
		),
		stageTime: prom.NewHistogramVec(
			prom.HistogramOpts{
				Name:    "pipeline_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 900},
			},
			[]string{"stage", "outcome"},
		),
		decisions: prom.NewCounterVec(
			prom.CounterOpts{
				Name: "model_evaluation_decisions_total",
				Help: "Candidate model evaluation decisions",
			},
			[]string{"decision"},
		),
		predictions: prom.NewCounterVec(
			prom.CounterOpts{
				Name: "predictions_total",
				Help: "Prediction requests by outcome",
			},
			[]string{"outcome"},
		),
	}

	r.registry.MustRegister(r.runs, r.stageTime, r.decisions, r.predictions)
	return r
}

func (r *Recorder) ObserveStage(stage string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.stageTime.WithLabelValues(stage, outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) RecordRun(status domain.RunStatus) {
	r.runs.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) RecordDecision(accepted bool) {
	decision := "rejected"
	if accepted {
		decision = "accepted"
	}
	r.decisions.WithLabelValues(decision).Inc()
}

func (r *Recorder) RecordPrediction(outcome string) {
	r.predictions.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
