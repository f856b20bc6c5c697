package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/ml"
)

func TestTransformationService_Deterministic(t *testing.T) {
	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	in := validated(t, store, cfg, 60)
	svc := NewTransformationService(store, testSchema())

	first, err := svc.Run(in, cfg.Transformation)
	require.NoError(t, err)

	again := cfg.Transformation
	dir := t.TempDir()
	again.TrainPath = filepath.Join(dir, "train.csv")
	again.TestPath = filepath.Join(dir, "test.csv")
	again.TransformerPath = filepath.Join(dir, "transformer.json")
	second, err := svc.Run(in, again)
	require.NoError(t, err)

	for _, pair := range [][2]string{
		{first.TrainPath, second.TrainPath},
		{first.TestPath, second.TestPath},
		{first.TransformerPath, second.TransformerPath},
	} {
		a, err := os.ReadFile(pair[0])
		require.NoError(t, err)
		b, err := os.ReadFile(pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s differs from %s", pair[0], pair[1])
	}
}

func TestTransformationService_ResamplesTrainOnly(t *testing.T) {
	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	in := validated(t, store, cfg, 60)

	out, err := NewTransformationService(store, testSchema()).Run(in, cfg.Transformation)
	require.NoError(t, err)

	rawTest, err := store.ReadFrame(in.TestPath)
	require.NoError(t, err)
	assert.Equal(t, rawTest.Len(), out.TestRows)
	assert.Equal(t, in.TestPath, out.RawTestPath)

	rows, err := store.ReadMatrix(out.TrainPath)
	require.NoError(t, err)
	_, y, err := splitLabels(rows)
	require.NoError(t, err)

	var pos int
	for _, v := range y {
		if v == 1 {
			pos++
		}
	}
	assert.Equal(t, len(y)-pos, pos, "train partition is balanced")

	var transformer ml.Transformer
	require.NoError(t, store.ReadJSON(out.TransformerPath, &transformer))
	// Gender(2) + Age + Vehicle_Damage(2) + Annual_Premium
	assert.Equal(t, 6, transformer.Width())
	assert.Equal(t, 6, out.Features)
	assert.Len(t, rows[0], 7)
}

func TestTransformationService_RefusesInvalidData(t *testing.T) {
	cfg := testRunConfig(t.TempDir())
	in := &domain.ValidationArtifact{
		Valid:      false,
		Violations: []domain.Violation{{Partition: "train", Column: "Age", Rule: domain.RuleMissingColumn}},
	}

	_, err := NewTransformationService(newArtifactStore(), testSchema()).Run(in, cfg.Transformation)
	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
}

func TestLabels_RoundTrip(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}}
	y := []float64{0, 1}

	gotX, gotY, err := splitLabels(withLabels(X, y))
	require.NoError(t, err)
	assert.Equal(t, X, gotX)
	assert.Equal(t, y, gotY)

	_, _, err = splitLabels([][]float64{{1}})
	assert.Error(t, err)
}

func TestTransformationService_OptionalColumnAbsent(t *testing.T) {
	schema := testSchema()
	optional := false
	schema.Columns[3].Required = &optional

	store := newArtifactStore()
	cfg := testRunConfig(t.TempDir())
	source := &staticSource{frame: syntheticFrame(60).Drop("Annual_Premium")}

	ing, err := NewIngestionService(source, store, schema).Run(t.Context(), cfg.Ingestion)
	require.NoError(t, err)
	val, err := NewValidationService(store, schema).Run(ing, cfg.Validation)
	require.NoError(t, err)
	assert.True(t, val.Valid)

	out, err := NewTransformationService(store, schema).Run(val, cfg.Transformation)
	require.NoError(t, err)

	var transformer ml.Transformer
	require.NoError(t, store.ReadJSON(out.TransformerPath, &transformer))
	premium := transformer.Columns[3]
	assert.Equal(t, "Annual_Premium", premium.Name)
	assert.Zero(t, premium.NumericFill)
	assert.Equal(t, 1.0, premium.Scale)

	rows, err := store.ReadMatrix(out.TrainPath)
	require.NoError(t, err)
	for _, row := range rows {
		assert.Zero(t, row[5], "absent optional column is imputed")
	}
}
