package domain

import (
	"fmt"
	"sort"
	"strings"
)

type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

type Scaling string

const (
	ScalingNone     Scaling = "none"
	ScalingStandard Scaling = "standard"
	ScalingMinMax   Scaling = "minmax"
)

// ColumnSpec is one declarative (column, kind, constraint) tuple of the schema.
type ColumnSpec struct {
	Name       string     `yaml:"name" json:"name"`
	Kind       ColumnKind `yaml:"kind" json:"kind"`
	Required   *bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Categories []string   `yaml:"categories,omitempty" json:"categories,omitempty"`
	Scaling    Scaling    `yaml:"scaling,omitempty" json:"scaling,omitempty"`
}

func (c ColumnSpec) IsRequired() bool {
	return c.Required == nil || *c.Required
}

// Allows reports whether value satisfies the column's category constraint.
// Columns without enumerated categories accept anything.
func (c ColumnSpec) Allows(value string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if cat == value {
			return true
		}
	}
	return false
}

type TargetSpec struct {
	Name     string            `yaml:"name" json:"name"`
	Positive string            `yaml:"positive" json:"positive"`
	Labels   map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Schema declares the expected columns of the ingested data.
type Schema struct {
	Target      TargetSpec   `yaml:"target" json:"target"`
	DropColumns []string     `yaml:"drop_columns,omitempty" json:"drop_columns,omitempty"`
	Columns     []ColumnSpec `yaml:"columns" json:"columns"`
}

func (s *Schema) Validate() error {
	if strings.TrimSpace(s.Target.Name) == "" {
		return fmt.Errorf("%w: target name is required", ErrInvalidSchema)
	}
	if s.Target.Positive == "" {
		return fmt.Errorf("%w: target positive label is required", ErrInvalidSchema)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no feature columns declared", ErrInvalidSchema)
	}

	seen := map[string]bool{s.Target.Name: true}
	for i, col := range s.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidSchema, i)
		}
		if seen[col.Name] {
			return fmt.Errorf("%w: column %q declared twice", ErrInvalidSchema, col.Name)
		}
		seen[col.Name] = true

		switch col.Kind {
		case KindNumeric:
			switch col.Scaling {
			case "", ScalingNone, ScalingStandard, ScalingMinMax:
			default:
				return fmt.Errorf("%w: column %q has unknown scaling %q", ErrInvalidSchema, col.Name, col.Scaling)
			}
		case KindCategorical:
			if col.Scaling != "" && col.Scaling != ScalingNone {
				return fmt.Errorf("%w: categorical column %q cannot be scaled", ErrInvalidSchema, col.Name)
			}
		default:
			return fmt.Errorf("%w: column %q has unknown kind %q", ErrInvalidSchema, col.Name, col.Kind)
		}
	}
	return nil
}

// Rules returns the full list of tuples validation evaluates: every feature
// column followed by the target, which is a required categorical column.
func (s *Schema) Rules() []ColumnSpec {
	rules := make([]ColumnSpec, 0, len(s.Columns)+1)
	rules = append(rules, s.Columns...)

	var categories []string
	for k := range s.Target.Labels {
		categories = append(categories, k)
	}
	sort.Strings(categories)
	rules = append(rules, ColumnSpec{Name: s.Target.Name, Kind: KindCategorical, Categories: categories})
	return rules
}

// ExpectedColumns lists the feature columns followed by the target column.
func (s *Schema) ExpectedColumns() []string {
	names := make([]string, 0, len(s.Columns)+1)
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return append(names, s.Target.Name)
}

func (s *Schema) Column(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Label returns the human readable label for a predicted class.
func (s *Schema) Label(positive bool) string {
	var raw string
	if positive {
		raw = s.Target.Positive
	} else {
		keys := make([]string, 0, len(s.Target.Labels))
		for k := range s.Target.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k != s.Target.Positive {
				raw = k
				break
			}
		}
	}
	if l, ok := s.Target.Labels[raw]; ok {
		return l
	}
	if positive {
		return fmt.Sprintf("%s-%s", s.Target.Name, s.Target.Positive)
	}
	return fmt.Sprintf("%s-not-%s", s.Target.Name, s.Target.Positive)
}

// Violation is one schema mismatch found during validation.
type Violation struct {
	Partition string `json:"partition"`
	Column    string `json:"column,omitempty"`
	Rule      string `json:"rule"`
	Detail    string `json:"detail"`
}

const (
	RuleColumnCount      = "column_count"
	RuleMissingColumn    = "missing_column"
	RuleUnexpectedColumn = "unexpected_column"
	RuleNumeric          = "numeric"
	RuleCategory         = "category"
)

func (v Violation) String() string {
	if v.Column == "" {
		return fmt.Sprintf("[%s] %s", v.Partition, v.Detail)
	}
	return fmt.Sprintf("[%s] column %q: %s", v.Partition, v.Column, v.Detail)
}

func FormatViolations(vs []Violation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}
