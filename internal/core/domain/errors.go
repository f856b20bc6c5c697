package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Pipeline Errors
// ============================================================================

var (
	ErrDataAccess         = errors.New("data access failed")
	ErrEmptySource        = errors.New("source collection is empty")
	ErrConnection         = errors.New("connection failed")
	ErrSchemaValidation   = errors.New("schema validation failed")
	ErrTraining           = errors.New("model training failed")
	ErrTrainingInProgress = errors.New("a training run is already in progress")
	ErrInvalidSchema      = errors.New("invalid schema definition")
)

// ============================================================================
// Registry / Serving Errors
// ============================================================================

var (
	ErrModelNotRegistered = errors.New("no model is registered")
	ErrObjectNotFound     = errors.New("object not found")
	ErrRunNotFound        = errors.New("pipeline run not found")
	ErrPredictionInput    = errors.New("invalid prediction input")
	ErrRegistryChanged    = errors.New("registry slot changed since evaluation")
)

// DataAccessError reports a failure to read raw records from the document store.
type DataAccessError struct {
	Source string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access %s: %v", e.Source, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) Is(target error) bool { return target == ErrDataAccess }

// ConnectionError reports an unreachable document store or object store.
// It is fatal for a pipeline run and never retried.
type ConnectionError struct {
	Resource string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Resource, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// SchemaValidationError carries every violation found in the ingested partitions.
type SchemaValidationError struct {
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchemaValidation, FormatViolations(e.Violations))
}

func (e *SchemaValidationError) Is(target error) bool { return target == ErrSchemaValidation }

// TrainingError is returned when the trained model scores below the acceptance floor.
type TrainingError struct {
	Metric    string
	Score     float64
	Threshold float64
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("%s: %s %.4f is below the expected score %.4f", ErrTraining, e.Metric, e.Score, e.Threshold)
}

func (e *TrainingError) Is(target error) bool { return target == ErrTraining }

// PredictionInputError lists every problem found in a single prediction request.
type PredictionInputError struct {
	Problems []string
}

func (e *PredictionInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPredictionInput, strings.Join(e.Problems, "; "))
}

func (e *PredictionInputError) Is(target error) bool { return target == ErrPredictionInput }
