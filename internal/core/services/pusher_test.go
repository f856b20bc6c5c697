package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/ml"
	"vehicle-insurance-mlops/internal/testutil"
)

func TestPusherService_RejectedIsNoop(t *testing.T) {
	registry := new(testutil.MockObjectStore)

	out, err := NewPusherService(registry, newArtifactStore()).Run(context.Background(),
		&domain.EvaluationArtifact{Accepted: false}, domain.PusherConfig{RegistryKey: "k"}, "run")
	require.NoError(t, err)
	assert.False(t, out.Pushed)
	assert.Nil(t, out.Entry)
	registry.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestPusherService_OverwritesSlotWithNextVersion(t *testing.T) {
	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	candidate := trained(t, store, cfg, 80)

	pushedAt := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var body []byte
	registry := new(testutil.MockObjectStore)
	registry.On("Exists", mock.Anything, "model-registry/model.json").Return(true, nil)
	registry.On("Put", mock.Anything, "model-registry/model.json", mock.Anything).
		Run(func(args mock.Arguments) { body = args.Get(2).([]byte) }).
		Return(nil)

	svc := NewPusherService(registry, store)
	svc.now = func() time.Time { return pushedAt }

	in := &domain.EvaluationArtifact{
		Accepted:        true,
		MetricName:      domain.MetricF1,
		CandidateScore:  candidate.Score,
		HasExisting:     true,
		ExistingVersion: 4,
		ModelPath:       candidate.ModelPath,
	}
	out, err := svc.Run(context.Background(), in, cfg.Pusher, "run-5")
	require.NoError(t, err)

	assert.True(t, out.Pushed)
	assert.Equal(t, "model-registry/model.json", out.Key)
	require.NotNil(t, out.Entry)
	assert.Equal(t, 5, out.Entry.Version)
	assert.Equal(t, "run-5", out.Entry.RunID)
	assert.Equal(t, pushedAt, out.Entry.PushedAt)

	model, err := ml.DecodeModel(body)
	require.NoError(t, err)
	require.NotNil(t, model.Registry)
	assert.Equal(t, 5, model.Registry.Version)
	assert.Equal(t, candidate.Score, model.Registry.Metric)
	registry.AssertExpectations(t)
}

func TestPusherService_FirstPushRegistersVersionOne(t *testing.T) {
	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	candidate := trained(t, store, cfg, 80)

	registry := new(testutil.MockObjectStore)
	registry.On("Exists", mock.Anything, cfg.Pusher.RegistryKey).Return(false, nil)
	registry.On("Put", mock.Anything, cfg.Pusher.RegistryKey, mock.Anything).Return(nil)

	in := &domain.EvaluationArtifact{Accepted: true, MetricName: domain.MetricF1, CandidateScore: candidate.Score, ModelPath: candidate.ModelPath}
	out, err := NewPusherService(registry, store).Run(context.Background(), in, cfg.Pusher, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Entry.Version)
	registry.AssertExpectations(t)
}

func TestPusherService_RefusesSlotFilledAfterEvaluation(t *testing.T) {
	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	candidate := trained(t, store, cfg, 80)

	registry := new(testutil.MockObjectStore)
	registry.On("Exists", mock.Anything, cfg.Pusher.RegistryKey).Return(true, nil)

	in := &domain.EvaluationArtifact{Accepted: true, MetricName: domain.MetricF1, CandidateScore: candidate.Score, ModelPath: candidate.ModelPath}
	_, err := NewPusherService(registry, store).Run(context.Background(), in, cfg.Pusher, "run-1")
	assert.ErrorIs(t, err, domain.ErrRegistryChanged)
	registry.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}
