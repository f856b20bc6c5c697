package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"vehicle-insurance-mlops/internal/adapters/secondary/localfs"
	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
)

// staticSource serves a copy of a fixed frame.
type staticSource struct {
	frame *domain.Frame
}

func (s *staticSource) FetchAll(ctx context.Context, collection string) (*domain.Frame, error) {
	return s.frame.Drop(), nil
}

func testSchema() *domain.Schema {
	return &domain.Schema{
		Target: domain.TargetSpec{
			Name:     "Response",
			Positive: "1",
			Labels:   map[string]string{"0": "Response-No", "1": "Response-Yes"},
		},
		DropColumns: []string{"_id", "id"},
		Columns: []domain.ColumnSpec{
			{Name: "Gender", Kind: domain.KindCategorical, Categories: []string{"Female", "Male"}},
			{Name: "Age", Kind: domain.KindNumeric, Scaling: domain.ScalingStandard},
			{Name: "Vehicle_Damage", Kind: domain.KindCategorical, Categories: []string{"No", "Yes"}},
			{Name: "Annual_Premium", Kind: domain.KindNumeric, Scaling: domain.ScalingMinMax},
		},
	}
}

// syntheticFrame builds n deterministic rows shaped like the raw collection,
// including the identifier columns ingestion drops.
func syntheticFrame(n int) *domain.Frame {
	f := &domain.Frame{Columns: []string{"_id", "id", "Gender", "Age", "Vehicle_Damage", "Annual_Premium", "Response"}}
	for i := 0; i < n; i++ {
		gender := "Male"
		if i%2 == 0 {
			gender = "Female"
		}
		age := 20 + (i*7)%50
		damage := "No"
		if i%3 != 0 {
			damage = "Yes"
		}
		premium := 1000 + (i*37)%500
		response := "0"
		if damage == "Yes" && age < 45 {
			response = "1"
		}
		f.Rows = append(f.Rows, []string{
			fmt.Sprintf("oid-%d", i), fmt.Sprint(i), gender, fmt.Sprint(age), damage, fmt.Sprint(premium), response,
		})
	}
	return f
}

func testSettings(dir string) domain.PipelineSettings {
	return domain.PipelineSettings{
		ArtifactDir: filepath.Join(dir, "artifact"),
		Collection:  "Proj1-Data",
		TestRatio:   0.3,
		Seed:        42,
		Trainer: domain.TrainerSettings{
			LearningRate:      0.5,
			Epochs:            300,
			L2:                0.001,
			DecisionThreshold: 0.5,
			ExpectedScore:     0,
			Metric:            domain.MetricF1,
		},
		EvaluationMargin: 0.02,
		RegistryPrefix:   "model-registry",
		ModelFileName:    "model.json",
	}
}

func testRunConfig(dir string) domain.RunConfig {
	return domain.NewRunConfig(testSettings(dir), uuid.New(), time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
}

// ingested writes a fresh ingestion artifact for n synthetic rows.
func ingested(t *testing.T, store ports.ArtifactStore, cfg domain.RunConfig, n int) *domain.IngestionArtifact {
	t.Helper()
	source := &staticSource{frame: syntheticFrame(n)}
	out, err := NewIngestionService(source, store, testSchema()).Run(t.Context(), cfg.Ingestion)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return out
}

func validated(t *testing.T, store ports.ArtifactStore, cfg domain.RunConfig, n int) *domain.ValidationArtifact {
	t.Helper()
	out, err := NewValidationService(store, testSchema()).Run(ingested(t, store, cfg, n), cfg.Validation)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	return out
}

func transformed(t *testing.T, store ports.ArtifactStore, cfg domain.RunConfig, n int) *domain.TransformationArtifact {
	t.Helper()
	out, err := NewTransformationService(store, testSchema()).Run(validated(t, store, cfg, n), cfg.Transformation)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return out
}

func trained(t *testing.T, store ports.ArtifactStore, cfg domain.RunConfig, n int) *domain.TrainerArtifact {
	t.Helper()
	out, err := NewTrainerService(store, testSchema()).Run(transformed(t, store, cfg, n), cfg.Trainer, cfg.RunID.String())
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return out
}

func newArtifactStore() ports.ArtifactStore {
	return localfs.NewArtifactStore()
}
