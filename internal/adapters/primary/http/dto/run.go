package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vehicle-insurance-mlops/internal/core/domain"
)

// ============================================================================
// Pipeline Run DTOs
// ============================================================================

type PipelineRunResponse struct {
	ID              uuid.UUID  `json:"id"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty"`
	Status          string     `json:"status"`
	Stage           string     `json:"stage"`
	Error           string     `json:"error,omitempty"`
	ArtifactDir     string     `json:"artifact_dir"`
	MetricName      string     `json:"metric_name,omitempty"`
	CandidateScore  float64    `json:"candidate_score"`
	ExistingScore   float64    `json:"existing_score"`
	Delta           float64    `json:"delta"`
	Accepted        bool       `json:"accepted"`
	RegistryVersion int        `json:"registry_version,omitempty"`
}

type ListPipelineRunsResponse struct {
	Items      []PipelineRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

// TrainResponse is the outcome of a /train trigger.
type TrainResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Run     *PipelineRunResponse `json:"run,omitempty"`
}

func ToPipelineRunResponse(run *domain.PipelineRun) PipelineRunResponse {
	resp := PipelineRunResponse{
		ID:              run.ID,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		Status:          string(run.Status),
		Stage:           run.Stage,
		Error:           run.Error,
		ArtifactDir:     run.ArtifactDir,
		MetricName:      run.MetricName,
		CandidateScore:  run.CandidateScore,
		ExistingScore:   run.ExistingScore,
		Delta:           run.Delta,
		Accepted:        run.Accepted,
		RegistryVersion: run.RegistryVersion,
	}
	if run.FinishedAt != nil {
		resp.DurationSeconds = run.FinishedAt.Sub(run.StartedAt).Seconds()
	}
	return resp
}

// ToTrainResponse summarizes a pipeline run. run is nil when the trigger
// was refused before a run started.
func ToTrainResponse(run *domain.PipelineRun, err error) TrainResponse {
	resp := TrainResponse{Success: err == nil}
	if run != nil {
		r := ToPipelineRunResponse(run)
		resp.Run = &r
	}

	switch {
	case err != nil:
		resp.Message = err.Error()
	case run.Status == domain.RunStatusRejected:
		resp.Message = fmt.Sprintf("Training completed: candidate %s %.4f did not beat the registered model by the required margin, registry unchanged",
			run.MetricName, run.CandidateScore)
	default:
		resp.Message = fmt.Sprintf("Training successful: model version %d pushed (%s %.4f)",
			run.RegistryVersion, run.MetricName, run.CandidateScore)
	}
	return resp
}
