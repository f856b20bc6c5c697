package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusRejected  RunStatus = "REJECTED"
	RunStatusFailed    RunStatus = "FAILED"
)

const (
	StageIngestion      = "data_ingestion"
	StageValidation     = "data_validation"
	StageTransformation = "data_transformation"
	StageTrainer        = "model_trainer"
	StageEvaluation     = "model_evaluation"
	StagePusher         = "model_pusher"
)

// PipelineRun is the audit record of one training run.
type PipelineRun struct {
	ID              uuid.UUID  `json:"id"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	Status          RunStatus  `json:"status"`
	Stage           string     `json:"stage"`
	Error           string     `json:"error,omitempty"`
	ArtifactDir     string     `json:"artifact_dir"`
	MetricName      string     `json:"metric_name,omitempty"`
	CandidateScore  float64    `json:"candidate_score"`
	ExistingScore   float64    `json:"existing_score"`
	Delta           float64    `json:"delta"`
	Accepted        bool       `json:"accepted"`
	RegistryVersion int        `json:"registry_version"`
}

func (r *PipelineRun) Finish(status RunStatus, err error) {
	now := time.Now()
	r.FinishedAt = &now
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
}
