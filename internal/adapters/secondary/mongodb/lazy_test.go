package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/testutil"
)

func TestLazyRecordSource_MissingURL(t *testing.T) {
	s := NewLazyRecordSource(config.MongoConfig{})

	_, err := s.FetchAll(context.Background(), "Proj1-Data")
	assert.ErrorIs(t, err, domain.ErrConnection)
	assert.NoError(t, s.Close(context.Background()))
}

func TestLazyRecordSource_ConnectsOnceAndRetriesFailures(t *testing.T) {
	inner := new(testutil.MockRecordSource)
	inner.On("FetchAll", mock.Anything, "c").Return(&domain.Frame{Columns: []string{"a"}}, nil)

	attempts, closed := 0, 0
	s := NewLazyRecordSource(config.MongoConfig{URL: "mongodb://x"})
	s.connect = func(context.Context, *config.MongoConfig) (ports.RecordSource, func(context.Context) error, error) {
		attempts++
		if attempts == 1 {
			return nil, nil, &domain.ConnectionError{Resource: "mongodb", Err: errors.New("refused")}
		}
		return inner, func(context.Context) error { closed++; return nil }, nil
	}

	ctx := context.Background()
	_, err := s.FetchAll(ctx, "c")
	require.ErrorIs(t, err, domain.ErrConnection)

	for i := 0; i < 2; i++ {
		f, err := s.FetchAll(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, f.Columns)
	}
	assert.Equal(t, 2, attempts)

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, 1, closed)
}
