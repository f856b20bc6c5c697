package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/ml"
)

const (
	partitionTrain = "train"
	partitionTest  = "test"
)

type ValidationService struct {
	store  ports.ArtifactStore
	schema *domain.Schema
}

func NewValidationService(store ports.ArtifactStore, schema *domain.Schema) *ValidationService {
	return &ValidationService{store: store, schema: schema}
}

// Run checks both partitions against the schema. Every violation is
// collected and written to the report before the run fails.
func (s *ValidationService) Run(in *domain.IngestionArtifact, cfg domain.ValidationConfig) (*domain.ValidationArtifact, error) {
	var violations []domain.Violation
	for _, p := range []struct{ name, path string }{
		{partitionTrain, in.TrainPath},
		{partitionTest, in.TestPath},
	} {
		frame, err := s.store.ReadFrame(p.path)
		if err != nil {
			return nil, fmt.Errorf("read %s partition: %w", p.name, err)
		}
		violations = append(violations, CheckFrame(s.schema, p.name, frame)...)
	}

	out := &domain.ValidationArtifact{
		Valid:      len(violations) == 0,
		Violations: violations,
		ReportPath: cfg.ReportPath,
		TrainPath:  in.TrainPath,
		TestPath:   in.TestPath,
	}
	if out.Valid {
		out.Message = "train and test partitions match the schema"
	} else {
		out.Message = domain.FormatViolations(violations)
	}

	if err := s.store.WriteJSON(cfg.ReportPath, out); err != nil {
		return nil, fmt.Errorf("write validation report: %w", err)
	}

	if !out.Valid {
		log.WithFields(log.Fields{
			"violations": len(violations),
			"report":     cfg.ReportPath,
		}).Warn("data validation failed")
		return out, &domain.SchemaValidationError{Violations: violations}
	}

	log.WithField("report", cfg.ReportPath).Info("data validated")
	return out, nil
}

// CheckFrame evaluates every schema rule against one partition and returns
// all violations found.
func CheckFrame(schema *domain.Schema, partition string, f *domain.Frame) []domain.Violation {
	var out []domain.Violation
	add := func(column, rule, detail string) {
		out = append(out, domain.Violation{Partition: partition, Column: column, Rule: rule, Detail: detail})
	}

	expected := schema.ExpectedColumns()

	// optional columns count only when present
	want := 0
	for _, rule := range schema.Rules() {
		if rule.IsRequired() || f.HasColumn(rule.Name) {
			want++
		}
	}
	if len(f.Columns) != want {
		add("", domain.RuleColumnCount, fmt.Sprintf("expected %d columns, found %d", want, len(f.Columns)))
	}

	known := make(map[string]bool, len(expected))
	for _, name := range expected {
		known[name] = true
	}
	for _, name := range f.Columns {
		if !known[name] {
			add(name, domain.RuleUnexpectedColumn, "column is not declared in the schema")
		}
	}

	for _, rule := range schema.Rules() {
		if !f.HasColumn(rule.Name) {
			if rule.IsRequired() {
				add(rule.Name, domain.RuleMissingColumn, "required column is missing")
			}
			continue
		}

		isTarget := rule.Name == schema.Target.Name
		var bad []string
		for _, cell := range f.Column(rule.Name) {
			if cell == "" {
				// features are imputed, labels are not
				if isTarget {
					bad = append(bad, cell)
				}
				continue
			}
			switch rule.Kind {
			case domain.KindNumeric:
				if !ml.IsNumeric(cell) {
					bad = append(bad, cell)
				}
			case domain.KindCategorical:
				if !rule.Allows(cell) {
					bad = append(bad, cell)
				}
			}
		}
		if len(bad) == 0 {
			continue
		}

		if rule.Kind == domain.KindNumeric {
			add(rule.Name, domain.RuleNumeric, fmt.Sprintf("%d non-numeric values, e.g. %q", len(bad), bad[0]))
		} else {
			add(rule.Name, domain.RuleCategory, fmt.Sprintf("%d values outside the declared categories, e.g. %q", len(bad), bad[0]))
		}
	}
	return out
}
