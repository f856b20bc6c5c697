package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-insurance-mlops/internal/core/domain"
)

const ModelName = "LogisticRegression"

// InferenceModel bundles the fitted transformer with the estimator so
// inference always applies the preprocessing used in training.
type InferenceModel struct {
	Name        string                       `json:"name"`
	RunID       string                       `json:"run_id"`
	TrainedAt   time.Time                    `json:"trained_at"`
	Schema      domain.Schema                `json:"schema"`
	Transformer *Transformer                 `json:"transformer"`
	Estimator   *LogisticRegression          `json:"estimator"`
	MetricName  string                       `json:"metric_name"`
	Metrics     domain.ClassificationMetrics `json:"metrics"`
	Registry    *domain.RegistryEntry        `json:"registry,omitempty"`
}

type Prediction struct {
	Positive    bool    `json:"positive"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"`
}

// CheckRecord lists every problem of a feature record against the model schema.
func (m *InferenceModel) CheckRecord(rec map[string]string) []string {
	var problems []string
	for _, spec := range m.Schema.Columns {
		raw, ok := rec[spec.Name]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			if spec.IsRequired() {
				problems = append(problems, fmt.Sprintf("%s is required", spec.Name))
			}
			continue
		}
		switch spec.Kind {
		case domain.KindNumeric:
			if _, err := parseNumber(raw); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", spec.Name, err))
			}
		case domain.KindCategorical:
			if !spec.Allows(raw) {
				problems = append(problems, fmt.Sprintf("%s: %q is not one of %s", spec.Name, raw, strings.Join(spec.Categories, ", ")))
			}
		}
	}
	return problems
}

// Predict classifies one record. Malformed input yields a *domain.PredictionInputError.
func (m *InferenceModel) Predict(rec map[string]string) (Prediction, error) {
	if problems := m.CheckRecord(rec); len(problems) > 0 {
		return Prediction{}, &domain.PredictionInputError{Problems: problems}
	}
	x, err := m.Transformer.TransformRecord(rec)
	if err != nil {
		return Prediction{}, &domain.PredictionInputError{Problems: []string{err.Error()}}
	}

	p := m.Estimator.Probability(x)
	positive := p >= m.Estimator.Threshold
	return Prediction{
		Positive:    positive,
		Probability: p,
		Label:       m.Schema.Label(positive),
	}, nil
}

// Score evaluates the model on a raw labelled frame.
func (m *InferenceModel) Score(f *domain.Frame) (domain.ClassificationMetrics, error) {
	X, y, err := m.Transformer.TransformFrame(f)
	if err != nil {
		return domain.ClassificationMetrics{}, err
	}
	return Evaluate(y, m.Estimator.PredictAll(X)), nil
}

func EncodeModel(m *InferenceModel) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return b, nil
}

func DecodeModel(b []byte) (*InferenceModel, error) {
	var m InferenceModel
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if m.Transformer == nil || m.Estimator == nil {
		return nil, errors.New("decode model: bundle is missing transformer or estimator")
	}
	return &m, nil
}
