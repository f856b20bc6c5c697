package domain

import (
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout names the per-run artifact directory.
const TimestampLayout = "01_02_2006_15_04_05"

const (
	MetricAccuracy  = "accuracy"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricF1        = "f1"
)

// PipelineSettings holds the static parameters every run is derived from.
type PipelineSettings struct {
	ArtifactDir      string
	Collection       string
	TestRatio        float64
	Seed             uint64
	Trainer          TrainerSettings
	EvaluationMargin float64
	RegistryPrefix   string
	ModelFileName    string
}

type TrainerSettings struct {
	LearningRate      float64
	Epochs            int
	L2                float64
	DecisionThreshold float64
	ExpectedScore     float64
	Metric            string
}

// RegistryKey is the object key of the single registry slot.
func (s PipelineSettings) RegistryKey() string {
	return path.Join(s.RegistryPrefix, s.ModelFileName)
}

// RunConfig is the immutable configuration of one pipeline run.
type RunConfig struct {
	RunID          uuid.UUID
	Timestamp      string
	ArtifactRoot   string
	Ingestion      IngestionConfig
	Validation     ValidationConfig
	Transformation TransformationConfig
	Trainer        TrainerConfig
	Evaluation     EvaluationConfig
	Pusher         PusherConfig
}

type IngestionConfig struct {
	Collection       string
	TestRatio        float64
	Seed             uint64
	FeatureStorePath string
	TrainPath        string
	TestPath         string
}

type ValidationConfig struct {
	ReportPath string
}

type TransformationConfig struct {
	Seed            uint64
	TrainPath       string
	TestPath        string
	TransformerPath string
}

type TrainerConfig struct {
	TrainerSettings
	ModelPath string
}

type EvaluationConfig struct {
	Margin      float64
	RegistryKey string
}

type PusherConfig struct {
	RegistryKey string
}

func NewRunConfig(s PipelineSettings, runID uuid.UUID, now time.Time) RunConfig {
	ts := now.Format(TimestampLayout)
	root := filepath.Join(s.ArtifactDir, ts)

	ingestionDir := filepath.Join(root, "data_ingestion")
	transformationDir := filepath.Join(root, "data_transformation")

	return RunConfig{
		RunID:        runID,
		Timestamp:    ts,
		ArtifactRoot: root,
		Ingestion: IngestionConfig{
			Collection:       s.Collection,
			TestRatio:        s.TestRatio,
			Seed:             s.Seed,
			FeatureStorePath: filepath.Join(ingestionDir, "feature_store", "data.csv"),
			TrainPath:        filepath.Join(ingestionDir, "ingested", "train.csv"),
			TestPath:         filepath.Join(ingestionDir, "ingested", "test.csv"),
		},
		Validation: ValidationConfig{
			ReportPath: filepath.Join(root, "data_validation", "report.json"),
		},
		Transformation: TransformationConfig{
			Seed:            s.Seed,
			TrainPath:       filepath.Join(transformationDir, "transformed", "train.csv"),
			TestPath:        filepath.Join(transformationDir, "transformed", "test.csv"),
			TransformerPath: filepath.Join(transformationDir, "transformed_object", "transformer.json"),
		},
		Trainer: TrainerConfig{
			TrainerSettings: s.Trainer,
			ModelPath:       filepath.Join(root, "model_trainer", "trained_model", "model.json"),
		},
		Evaluation: EvaluationConfig{
			Margin:      s.EvaluationMargin,
			RegistryKey: s.RegistryKey(),
		},
		Pusher: PusherConfig{
			RegistryKey: s.RegistryKey(),
		},
	}
}
