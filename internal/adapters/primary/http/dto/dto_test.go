package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/ml"
)

func finishedRun(status domain.RunStatus) *domain.PipelineRun {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	return &domain.PipelineRun{
		ID:              uuid.New(),
		StartedAt:       start,
		FinishedAt:      &end,
		Status:          status,
		Stage:           domain.StagePusher,
		MetricName:      domain.MetricF1,
		CandidateScore:  0.8123,
		RegistryVersion: 4,
	}
}

func TestToPipelineRunResponse(t *testing.T) {
	run := finishedRun(domain.RunStatusSucceeded)
	resp := ToPipelineRunResponse(run)

	assert.Equal(t, run.ID, resp.ID)
	assert.Equal(t, "SUCCEEDED", resp.Status)
	assert.Equal(t, 90.0, resp.DurationSeconds)
	assert.Equal(t, 4, resp.RegistryVersion)
}

func TestToTrainResponse(t *testing.T) {
	t.Run("pushed", func(t *testing.T) {
		resp := ToTrainResponse(finishedRun(domain.RunStatusSucceeded), nil)
		assert.True(t, resp.Success)
		assert.Contains(t, resp.Message, "version 4")
	})

	t.Run("rejected", func(t *testing.T) {
		resp := ToTrainResponse(finishedRun(domain.RunStatusRejected), nil)
		assert.True(t, resp.Success)
		assert.Contains(t, resp.Message, "registry unchanged")
	})

	t.Run("failed", func(t *testing.T) {
		run := finishedRun(domain.RunStatusFailed)
		resp := ToTrainResponse(run, errors.New("data_validation: schema validation failed"))
		assert.False(t, resp.Success)
		assert.Equal(t, "data_validation: schema validation failed", resp.Message)
		require.NotNil(t, resp.Run)
	})

	t.Run("refused", func(t *testing.T) {
		resp := ToTrainResponse(nil, domain.ErrTrainingInProgress)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Run)
	})
}

func TestToPredictionResponse(t *testing.T) {
	m := &ml.InferenceModel{RunID: "r1", Registry: &domain.RegistryEntry{Version: 7}}
	resp := ToPredictionResponse(ml.Prediction{Positive: true, Probability: 0.9, Label: "Response-Yes"}, m)

	assert.Equal(t, "Response-Yes", resp.Prediction)
	assert.Equal(t, 7, resp.ModelVersion)
	assert.Equal(t, "r1", resp.RunID)
}
