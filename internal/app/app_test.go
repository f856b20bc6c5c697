package app

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("REGISTRY_BACKEND", "local")
	t.Setenv("REGISTRY_LOCAL_DIR", t.TempDir())
	t.Setenv("ARTIFACT_DIR", t.TempDir())
	t.Setenv("SCHEMA_FILE", "../../config/schema.yaml")
	t.Setenv("MONGODB_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("KUBERNETES_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_LocalBackends(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, localConfig(t))
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Equal(t, "Response", a.Schema.Target.Name)
	assert.False(t, a.Prediction.Loaded())

	_, err = a.Prediction.Model(ctx)
	assert.ErrorIs(t, err, domain.ErrModelNotRegistered)

	runs, total, err := a.Runs.List(ctx, ports.RunListFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Zero(t, total)
}

func TestNew_PipelineWithoutMongoFailsWithConnectionError(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, localConfig(t))
	require.NoError(t, err)
	defer a.Close(ctx)

	run, err := a.Pipeline.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConnection))
	require.NotNil(t, run)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	assert.Equal(t, domain.StageIngestion, run.Stage)

	stored, err := a.Runs.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, stored.Status)
}

func TestNew_RedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := localConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)

	_, err = a.Pipeline.Run(ctx)
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.False(t, mr.Exists("vehicle-insurance-mlops:training-lock"))
}

func TestNew_MissingSchemaFile(t *testing.T) {
	cfg := localConfig(t)
	cfg.SchemaFile = "does-not-exist.yaml"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
