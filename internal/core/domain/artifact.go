package domain

import "time"

// Stage artifacts. Each is produced by one stage and read only by the next.

type IngestionArtifact struct {
	FeatureStorePath string `json:"feature_store_path"`
	TrainPath        string `json:"train_path"`
	TestPath         string `json:"test_path"`
	TrainRows        int    `json:"train_rows"`
	TestRows         int    `json:"test_rows"`
}

type ValidationArtifact struct {
	Valid      bool        `json:"valid"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations"`
	ReportPath string      `json:"report_path"`
	TrainPath  string      `json:"train_path"`
	TestPath   string      `json:"test_path"`
}

type TransformationArtifact struct {
	TransformerPath string `json:"transformer_path"`
	TrainPath       string `json:"train_path"`
	TestPath        string `json:"test_path"`
	RawTestPath     string `json:"raw_test_path"`
	TrainRows       int    `json:"train_rows"`
	TestRows        int    `json:"test_rows"`
	Features        int    `json:"features"`
}

type ClassificationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Get returns the metric by name.
func (m ClassificationMetrics) Get(name string) (float64, bool) {
	switch name {
	case MetricAccuracy:
		return m.Accuracy, true
	case MetricPrecision:
		return m.Precision, true
	case MetricRecall:
		return m.Recall, true
	case MetricF1:
		return m.F1, true
	}
	return 0, false
}

type TrainerArtifact struct {
	ModelPath   string                `json:"model_path"`
	RawTestPath string                `json:"raw_test_path"`
	MetricName  string                `json:"metric_name"`
	Score       float64               `json:"score"`
	Metrics     ClassificationMetrics `json:"metrics"`
}

type EvaluationArtifact struct {
	Accepted        bool    `json:"accepted"`
	MetricName      string  `json:"metric_name"`
	CandidateScore  float64 `json:"candidate_score"`
	ExistingScore   float64 `json:"existing_score"`
	Delta           float64 `json:"delta"`
	HasExisting     bool    `json:"has_existing"`
	ExistingVersion int     `json:"existing_version"`
	ModelPath       string  `json:"model_path"`
	Reason          string  `json:"reason"`
}

type PusherArtifact struct {
	Pushed bool           `json:"pushed"`
	Key    string         `json:"key"`
	Entry  *RegistryEntry `json:"entry,omitempty"`
}

// RegistryEntry describes the model held in the single registry slot.
type RegistryEntry struct {
	Version    int       `json:"version"`
	RunID      string    `json:"run_id"`
	MetricName string    `json:"metric_name"`
	Metric     float64   `json:"metric"`
	PushedAt   time.Time `json:"pushed_at"`
}
