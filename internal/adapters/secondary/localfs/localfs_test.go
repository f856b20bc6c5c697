package localfs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/core/domain"
)

func TestArtifactStore_FrameRoundTrip(t *testing.T) {
	store := NewArtifactStore()
	path := filepath.Join(t.TempDir(), "a", "b", "train.csv")
	frame := &domain.Frame{
		Columns: []string{"Gender", "Age"},
		Rows:    [][]string{{"Male", "22"}, {"Female", ""}},
	}

	require.NoError(t, store.WriteFrame(path, frame))
	got, err := store.ReadFrame(path)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestArtifactStore_MatrixBytesAreStable(t *testing.T) {
	store := NewArtifactStore()
	dir := t.TempDir()
	rows := [][]float64{{0.1, 1.0 / 3.0, -2}, {1e-9, 0, 42}}

	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, store.WriteMatrix(a, rows))
	require.NoError(t, store.WriteMatrix(b, rows))

	ab, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(ab, bb))

	got, err := store.ReadMatrix(a)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestArtifactStore_JSON(t *testing.T) {
	store := NewArtifactStore()
	path := filepath.Join(t.TempDir(), "report.json")
	in := domain.ValidationArtifact{Valid: true, Message: "ok"}

	require.NoError(t, store.WriteJSON(path, in))
	var out domain.ValidationArtifact
	require.NoError(t, store.ReadJSON(path, &out))
	assert.Equal(t, in.Message, out.Message)
	assert.True(t, out.Valid)
}

func TestObjectStore(t *testing.T) {
	ctx := context.Background()
	store := NewObjectStore(t.TempDir())

	ok, err := store.Exists(ctx, "model-registry/model.json")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "model-registry/model.json")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	require.NoError(t, store.Put(ctx, "model-registry/model.json", []byte("v1")))
	require.NoError(t, store.Put(ctx, "model-registry/model.json", []byte("v2")))

	ok, err = store.Exists(ctx, "model-registry/model.json")
	require.NoError(t, err)
	assert.True(t, ok)

	b, err := store.Get(ctx, "model-registry/model.json")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))
}
