package dto

import (
	"time"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/ml"
)

// ============================================================================
// Prediction DTOs
// ============================================================================

type PredictionResponse struct {
	Prediction   string  `json:"prediction"`
	Positive     bool    `json:"positive"`
	Probability  float64 `json:"probability"`
	ModelVersion int     `json:"model_version,omitempty"`
	RunID        string  `json:"run_id,omitempty"`
}

type RegistryResponse struct {
	Name       string                       `json:"name"`
	RunID      string                       `json:"run_id"`
	TrainedAt  time.Time                    `json:"trained_at"`
	MetricName string                       `json:"metric_name"`
	Metrics    domain.ClassificationMetrics `json:"metrics"`
	Features   []string                     `json:"features"`
	Entry      *domain.RegistryEntry        `json:"entry,omitempty"`
}

func ToPredictionResponse(p ml.Prediction, m *ml.InferenceModel) PredictionResponse {
	resp := PredictionResponse{
		Prediction:  p.Label,
		Positive:    p.Positive,
		Probability: p.Probability,
		RunID:       m.RunID,
	}
	if m.Registry != nil {
		resp.ModelVersion = m.Registry.Version
	}
	return resp
}

func ToRegistryResponse(m *ml.InferenceModel) RegistryResponse {
	return RegistryResponse{
		Name:       m.Name,
		RunID:      m.RunID,
		TrainedAt:  m.TrainedAt,
		MetricName: m.MetricName,
		Metrics:    m.Metrics,
		Features:   m.Transformer.FeatureNames(),
		Entry:      m.Registry,
	}
}
