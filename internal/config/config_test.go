package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, "Proj1", cfg.Mongo.Database)
	assert.Equal(t, "Proj1-Data", cfg.Pipeline.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "model-registry/model.json", cfg.Pipeline.RegistryKey())
	assert.Equal(t, 0.25, cfg.Pipeline.TestRatio)
	assert.Equal(t, uint64(42), cfg.Pipeline.Seed)
	assert.Equal(t, domain.MetricF1, cfg.Pipeline.Trainer.Metric)
	assert.Equal(t, 500, cfg.Pipeline.Trainer.Epochs)
	assert.Equal(t, 30*time.Minute, cfg.Redis.LockTTL)
	assert.False(t, cfg.Kubernetes.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("REGISTRY_BACKEND", "LOCAL")
	t.Setenv("TRAINER_METRIC", "Accuracy")
	t.Setenv("EVALUATION_MARGIN", "0.05")
	t.Setenv("MODEL_PUSHER_S3_KEY", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, RegistryBackendLocal, cfg.Registry.Backend)
	assert.Equal(t, domain.MetricAccuracy, cfg.Pipeline.Trainer.Metric)
	assert.Equal(t, 0.05, cfg.Pipeline.EvaluationMargin)
	assert.Equal(t, "prod/model.json", cfg.Pipeline.RegistryKey())
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	cases := map[string][2]string{
		"ratio":   {"INGESTION_TEST_RATIO", "1.5"},
		"metric":  {"TRAINER_METRIC", "auc"},
		"backend": {"REGISTRY_BACKEND", "gcs"},
		"epochs":  {"TRAINER_EPOCHS", "0"},
		"margin":  {"EVALUATION_MARGIN", "-0.1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadSchema_ProjectFile(t *testing.T) {
	s, err := LoadSchema(filepath.Join("..", "..", "config", "schema.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Response", s.Target.Name)
	assert.Equal(t, []string{"_id", "id"}, s.DropColumns)
	assert.Len(t, s.Columns, 10)
	assert.Equal(t, "Response-Yes", s.Label(true))
	assert.Equal(t, "Response-No", s.Label(false))

	age, ok := s.Column("Age")
	require.True(t, ok)
	assert.Equal(t, domain.KindNumeric, age.Kind)
	assert.True(t, age.IsRequired())
}

func TestParseSchema_Invalid(t *testing.T) {
	_, err := ParseSchema([]byte("columns: [{name: a, kind: text}]\ntarget: {name: y, positive: '1'}"))
	assert.ErrorIs(t, err, domain.ErrInvalidSchema)

	_, err = ParseSchema([]byte("target: ["))
	assert.ErrorIs(t, err, domain.ErrInvalidSchema)
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
