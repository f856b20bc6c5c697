package ml

// Structured log keys shared by the pipeline stages and the prediction path.
const (
	ModelNameKey = "model.name"
	OperationKey = "ml.operation"
	PhaseKey     = "ml.phase"
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	MetricKey    = "metric.name"
	ScoreKey     = "metric.score"
)
