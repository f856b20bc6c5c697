package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

const createPipelineRunTable = `
	CREATE TABLE IF NOT EXISTS pipeline_run (
		id               UUID PRIMARY KEY,
		started_at       TIMESTAMPTZ NOT NULL,
		finished_at      TIMESTAMPTZ,
		status           TEXT NOT NULL,
		stage            TEXT NOT NULL DEFAULT '',
		error            TEXT NOT NULL DEFAULT '',
		artifact_dir     TEXT NOT NULL DEFAULT '',
		metric_name      TEXT NOT NULL DEFAULT '',
		candidate_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
		existing_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
		delta            DOUBLE PRECISION NOT NULL DEFAULT 0,
		accepted         BOOLEAN NOT NULL DEFAULT FALSE,
		registry_version INTEGER NOT NULL DEFAULT 0
	)
`

const selectPipelineRun = `
	SELECT id, started_at, finished_at, status, stage, error, artifact_dir,
		   metric_name, candidate_score, existing_score, delta, accepted, registry_version
	FROM pipeline_run
`

type pipelineRunRepo struct {
	pool *pgxpool.Pool
}

func NewPipelineRunRepository(pool *pgxpool.Pool) ports.RunRepository {
	return &pipelineRunRepo{pool: pool}
}

// EnsureSchema creates the pipeline_run table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createPipelineRunTable); err != nil {
		return fmt.Errorf("create pipeline_run table: %w", err)
	}
	return nil
}

func (r *pipelineRunRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		INSERT INTO pipeline_run
			(id, started_at, finished_at, status, stage, error, artifact_dir,
			 metric_name, candidate_score, existing_score, delta, accepted, registry_version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.StartedAt, run.FinishedAt, string(run.Status), run.Stage, run.Error,
		run.ArtifactDir, run.MetricName, run.CandidateScore, run.ExistingScore,
		run.Delta, run.Accepted, run.RegistryVersion,
	)
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

func (r *pipelineRunRepo) Update(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		UPDATE pipeline_run
		SET finished_at=$1, status=$2, stage=$3, error=$4, metric_name=$5,
			candidate_score=$6, existing_score=$7, delta=$8, accepted=$9, registry_version=$10
		WHERE id=$11
	`
	result, err := r.pool.Exec(ctx, query,
		run.FinishedAt, string(run.Status), run.Stage, run.Error, run.MetricName,
		run.CandidateScore, run.ExistingScore, run.Delta, run.Accepted, run.RegistryVersion,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *pipelineRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	run, err := scanRun(r.pool.QueryRow(ctx, selectPipelineRun+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get pipeline run by id: %w", err)
	}
	return run, nil
}

func (r *pipelineRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	whereClause := "1=1"
	args := []interface{}{}
	argPos := 1
	if filter.Status != "" {
		whereClause = fmt.Sprintf("status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM pipeline_run WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipeline runs: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY started_at DESC LIMIT $%d OFFSET $%d",
		selectPipelineRun, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pipeline run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pipeline run rows: %w", err)
	}
	return runs, total, nil
}

func scanRun(row pgx.Row) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	var status string
	err := row.Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &status, &run.Stage, &run.Error,
		&run.ArtifactDir, &run.MetricName, &run.CandidateScore, &run.ExistingScore,
		&run.Delta, &run.Accepted, &run.RegistryVersion,
	)
	if err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	return &run, nil
}
