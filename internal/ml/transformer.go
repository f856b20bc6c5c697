package ml

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vehicle-insurance-mlops/internal/core/domain"
)

// ColumnEncoder is the fitted preprocessing state of one feature column.
// Numeric columns impute with NumericFill then emit (x-Center)/Scale.
// Categorical columns impute with CategoryFill then one-hot encode over
// Categories; values outside Categories encode as all zeros.
type ColumnEncoder struct {
	Name         string            `json:"name"`
	Kind         domain.ColumnKind `json:"kind"`
	NumericFill  float64           `json:"numeric_fill,omitempty"`
	Center       float64           `json:"center,omitempty"`
	Scale        float64           `json:"scale,omitempty"`
	CategoryFill string            `json:"category_fill,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
}

// Transformer is fitted once on the training partition and reused unchanged
// for the test partition and for every inference request.
type Transformer struct {
	Columns  []ColumnEncoder `json:"columns"`
	Target   string          `json:"target"`
	Positive string          `json:"positive"`
}

// FitTransformer learns imputation, encoding and scaling parameters from train.
func FitTransformer(schema *domain.Schema, train *domain.Frame) (*Transformer, error) {
	t := &Transformer{
		Target:   schema.Target.Name,
		Positive: schema.Target.Positive,
	}

	for _, spec := range schema.Columns {
		var cells []string
		switch {
		case train.HasColumn(spec.Name):
			cells = train.Column(spec.Name)
		case spec.IsRequired():
			return nil, fmt.Errorf("fit transformer: column %q not found", spec.Name)
		default:
			// absent optional column: every row takes the fill value
			cells = make([]string, train.Len())
		}

		var enc ColumnEncoder
		var err error
		switch spec.Kind {
		case domain.KindNumeric:
			enc, err = fitNumeric(spec, cells)
		case domain.KindCategorical:
			enc = fitCategorical(spec, cells)
		default:
			err = fmt.Errorf("unknown kind %q", spec.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("fit transformer: column %q: %w", spec.Name, err)
		}
		t.Columns = append(t.Columns, enc)
	}
	return t, nil
}

func fitNumeric(spec domain.ColumnSpec, cells []string) (ColumnEncoder, error) {
	enc := ColumnEncoder{Name: spec.Name, Kind: domain.KindNumeric, Scale: 1}

	var observed []float64
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		v, err := parseNumber(c)
		if err != nil {
			return enc, err
		}
		observed = append(observed, v)
	}
	if len(observed) > 0 {
		enc.NumericFill = stat.Mean(observed, nil)
	}

	imputed := make([]float64, len(cells))
	j := 0
	for i, c := range cells {
		if strings.TrimSpace(c) == "" {
			imputed[i] = enc.NumericFill
			continue
		}
		imputed[i] = observed[j]
		j++
	}
	if len(imputed) == 0 {
		return enc, nil
	}

	switch spec.Scaling {
	case domain.ScalingStandard:
		mean, std := stat.PopMeanStdDev(imputed, nil)
		enc.Center = mean
		if std > 0 {
			enc.Scale = std
		}
	case domain.ScalingMinMax:
		lo, hi := floats.Min(imputed), floats.Max(imputed)
		enc.Center = lo
		if hi > lo {
			enc.Scale = hi - lo
		}
	}
	return enc, nil
}

func fitCategorical(spec domain.ColumnSpec, cells []string) ColumnEncoder {
	enc := ColumnEncoder{Name: spec.Name, Kind: domain.KindCategorical}

	counts := map[string]int{}
	for _, c := range cells {
		if c == "" {
			continue
		}
		counts[c]++
	}

	if len(spec.Categories) > 0 {
		enc.Categories = append([]string(nil), spec.Categories...)
	} else {
		for c := range counts {
			enc.Categories = append(enc.Categories, c)
		}
		sort.Strings(enc.Categories)
	}

	best := -1
	for _, c := range enc.Categories {
		if counts[c] > best || (counts[c] == best && c < enc.CategoryFill) {
			best = counts[c]
			enc.CategoryFill = c
		}
	}
	return enc
}

// Width is the number of features the transformer emits.
func (t *Transformer) Width() int {
	n := 0
	for _, c := range t.Columns {
		if c.Kind == domain.KindCategorical {
			n += len(c.Categories)
		} else {
			n++
		}
	}
	return n
}

func (t *Transformer) FeatureNames() []string {
	names := make([]string, 0, t.Width())
	for _, c := range t.Columns {
		if c.Kind == domain.KindCategorical {
			for _, cat := range c.Categories {
				names = append(names, c.Name+"="+cat)
			}
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// TransformRecord encodes a single record keyed by column name.
func (t *Transformer) TransformRecord(rec map[string]string) ([]float64, error) {
	out := make([]float64, 0, t.Width())
	for _, c := range t.Columns {
		raw := strings.TrimSpace(rec[c.Name])
		switch c.Kind {
		case domain.KindNumeric:
			v := c.NumericFill
			if raw != "" {
				parsed, err := parseNumber(raw)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", c.Name, err)
				}
				v = parsed
			}
			out = append(out, (v-c.Center)/c.Scale)
		case domain.KindCategorical:
			if raw == "" {
				raw = c.CategoryFill
			}
			for _, cat := range c.Categories {
				if cat == raw {
					out = append(out, 1)
				} else {
					out = append(out, 0)
				}
			}
		}
	}
	return out, nil
}

// TransformFrame encodes every row of f and extracts the binary target.
func (t *Transformer) TransformFrame(f *domain.Frame) ([][]float64, []float64, error) {
	targetIdx := f.Index(t.Target)
	if targetIdx < 0 {
		return nil, nil, fmt.Errorf("transform: target column %q not found", t.Target)
	}

	X := make([][]float64, f.Len())
	y := make([]float64, f.Len())
	for r := range f.Rows {
		row, err := t.TransformRecord(f.Record(r))
		if err != nil {
			return nil, nil, fmt.Errorf("transform row %d: %w", r, err)
		}
		X[r] = row
		if f.Rows[r][targetIdx] == t.Positive {
			y[r] = 1
		}
	}
	return X, y, nil
}

// IsNumeric reports whether s parses as a finite number.
func IsNumeric(s string) bool {
	_, err := parseNumber(s)
	return err == nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not numeric", s)
	}
	return v, nil
}
