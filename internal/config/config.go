package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vehicle-insurance-mlops/internal/core/domain"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Mongo      MongoConfig
	S3         S3Config
	Registry   RegistryConfig
	Pipeline   domain.PipelineSettings
	SchemaFile string
	Database   DatabaseConfig
	Redis      RedisConfig
	Kubernetes KubernetesConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level  string
	Format string
}

type MongoConfig struct {
	URL            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string
	ForcePathStyle  bool
}

const (
	RegistryBackendS3    = "s3"
	RegistryBackendLocal = "local"
)

type RegistryConfig struct {
	Backend  string
	LocalDir string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL     string
	LockTTL time.Duration
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	Namespace      string
	Deployment     string
}

type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	v.SetDefault("MONGODB_URL", "")
	v.SetDefault("MONGODB_DATABASE", "Proj1")
	v.SetDefault("MONGODB_COLLECTION", "Proj1-Data")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")

	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_SESSION_TOKEN", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_FORCE_PATH_STYLE", false)
	v.SetDefault("MODEL_BUCKET_NAME", "")
	v.SetDefault("MODEL_PUSHER_S3_KEY", "model-registry")
	v.SetDefault("MODEL_FILE_NAME", "model.json")

	v.SetDefault("REGISTRY_BACKEND", RegistryBackendS3)
	v.SetDefault("REGISTRY_LOCAL_DIR", "registry")

	v.SetDefault("ARTIFACT_DIR", "artifact")
	v.SetDefault("SCHEMA_FILE", "config/schema.yaml")
	v.SetDefault("INGESTION_TEST_RATIO", 0.25)
	v.SetDefault("PIPELINE_SEED", 42)
	v.SetDefault("EVALUATION_MARGIN", 0.02)

	v.SetDefault("TRAINER_LEARNING_RATE", 0.1)
	v.SetDefault("TRAINER_EPOCHS", 500)
	v.SetDefault("TRAINER_L2", 0.001)
	v.SetDefault("TRAINER_DECISION_THRESHOLD", 0.5)
	v.SetDefault("TRAINER_EXPECTED_SCORE", 0.6)
	v.SetDefault("TRAINER_METRIC", domain.MetricF1)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TRAINING_LOCK_TTL", "30m")

	v.SetDefault("KUBERNETES_ENABLED", false)
	v.SetDefault("KUBERNETES_IN_CLUSTER", true)
	v.SetDefault("KUBECONFIG_PATH", "")
	v.SetDefault("KUBERNETES_NAMESPACE", "default")
	v.SetDefault("KUBERNETES_DEPLOYMENT", "vehicle-insurance-prediction")

	v.SetDefault("TELEMETRY_ENABLED", false)
	v.SetDefault("SERVICE_NAME", "vehicle-insurance-mlops")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Mongo: MongoConfig{
			URL:            v.GetString("MONGODB_URL"),
			Database:       v.GetString("MONGODB_DATABASE"),
			Collection:     v.GetString("MONGODB_COLLECTION"),
			ConnectTimeout: v.GetDuration("MONGODB_CONNECT_TIMEOUT"),
		},
		S3: S3Config{
			Bucket:          v.GetString("MODEL_BUCKET_NAME"),
			Region:          v.GetString("AWS_REGION"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    v.GetString("AWS_SESSION_TOKEN"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			ForcePathStyle:  v.GetBool("S3_FORCE_PATH_STYLE"),
		},
		Registry: RegistryConfig{
			Backend:  strings.ToLower(v.GetString("REGISTRY_BACKEND")),
			LocalDir: v.GetString("REGISTRY_LOCAL_DIR"),
		},
		Pipeline: domain.PipelineSettings{
			ArtifactDir: v.GetString("ARTIFACT_DIR"),
			Collection:  v.GetString("MONGODB_COLLECTION"),
			TestRatio:   v.GetFloat64("INGESTION_TEST_RATIO"),
			Seed:        v.GetUint64("PIPELINE_SEED"),
			Trainer: domain.TrainerSettings{
				LearningRate:      v.GetFloat64("TRAINER_LEARNING_RATE"),
				Epochs:            v.GetInt("TRAINER_EPOCHS"),
				L2:                v.GetFloat64("TRAINER_L2"),
				DecisionThreshold: v.GetFloat64("TRAINER_DECISION_THRESHOLD"),
				ExpectedScore:     v.GetFloat64("TRAINER_EXPECTED_SCORE"),
				Metric:            strings.ToLower(v.GetString("TRAINER_METRIC")),
			},
			EvaluationMargin: v.GetFloat64("EVALUATION_MARGIN"),
			RegistryPrefix:   v.GetString("MODEL_PUSHER_S3_KEY"),
			ModelFileName:    v.GetString("MODEL_FILE_NAME"),
		},
		SchemaFile: v.GetString("SCHEMA_FILE"),
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:     v.GetString("REDIS_URL"),
			LockTTL: v.GetDuration("TRAINING_LOCK_TTL"),
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KUBERNETES_ENABLED"),
			InCluster:      v.GetBool("KUBERNETES_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KUBECONFIG_PATH"),
			Namespace:      v.GetString("KUBERNETES_NAMESPACE"),
			Deployment:     v.GetString("KUBERNETES_DEPLOYMENT"),
		},
		Telemetry: TelemetryConfig{
			Enabled:     v.GetBool("TELEMETRY_ENABLED"),
			ServiceName: v.GetString("SERVICE_NAME"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	p := c.Pipeline
	if p.TestRatio <= 0 || p.TestRatio >= 1 {
		return fmt.Errorf("INGESTION_TEST_RATIO must be in (0, 1), got %v", p.TestRatio)
	}
	if p.EvaluationMargin < 0 {
		return fmt.Errorf("EVALUATION_MARGIN must not be negative, got %v", p.EvaluationMargin)
	}
	if p.Trainer.Epochs <= 0 {
		return fmt.Errorf("TRAINER_EPOCHS must be positive, got %d", p.Trainer.Epochs)
	}
	if p.Trainer.LearningRate <= 0 {
		return fmt.Errorf("TRAINER_LEARNING_RATE must be positive, got %v", p.Trainer.LearningRate)
	}
	if _, ok := (domain.ClassificationMetrics{}).Get(p.Trainer.Metric); !ok {
		return fmt.Errorf("TRAINER_METRIC %q is not one of accuracy, precision, recall, f1", p.Trainer.Metric)
	}
	switch c.Registry.Backend {
	case RegistryBackendS3, RegistryBackendLocal:
	default:
		return fmt.Errorf("REGISTRY_BACKEND %q is not one of s3, local", c.Registry.Backend)
	}
	return nil
}
