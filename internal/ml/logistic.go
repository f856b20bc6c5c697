package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrNoSamples = errors.New("no training samples")

type TrainParams struct {
	LearningRate float64
	Epochs       int
	L2           float64
	Threshold    float64
}

// LogisticRegression is a binary classifier over dense feature vectors.
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

// FitLogisticRegression runs full-batch gradient descent from zero weights,
// so the same inputs always produce the same model.
func FitLogisticRegression(X [][]float64, y []float64, p TrainParams) (*LogisticRegression, error) {
	if len(X) == 0 {
		return nil, ErrNoSamples
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("fit: %d samples but %d labels", len(X), len(y))
	}
	if p.Epochs <= 0 || p.LearningRate <= 0 {
		return nil, fmt.Errorf("fit: epochs and learning rate must be positive")
	}

	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("fit: sample %d has %d features, want %d", i, len(row), width)
		}
	}

	threshold := p.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}
	m := &LogisticRegression{Weights: make([]float64, width), Threshold: threshold}

	n := float64(len(X))
	grad := make([]float64, width)
	for epoch := 0; epoch < p.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i, row := range X {
			residual := m.Probability(row) - y[i]
			floats.AddScaled(grad, residual, row)
			gradBias += residual
		}
		floats.Scale(1/n, grad)
		floats.AddScaled(grad, p.L2, m.Weights)

		floats.AddScaled(m.Weights, -p.LearningRate, grad)
		m.Bias -= p.LearningRate * gradBias / n
	}
	return m, nil
}

func (m *LogisticRegression) Probability(x []float64) float64 {
	return sigmoid(floats.Dot(m.Weights, x) + m.Bias)
}

// Predict returns 1 for the positive class and 0 otherwise.
func (m *LogisticRegression) Predict(x []float64) float64 {
	if m.Probability(x) >= m.Threshold {
		return 1
	}
	return 0
}

func (m *LogisticRegression) PredictAll(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.Predict(row)
	}
	return out
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
