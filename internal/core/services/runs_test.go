package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/testutil"
)

func TestRunService_ListClampsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 20},
		{-5, 20},
		{50, 50},
		{500, 100},
	}

	for _, tt := range tests {
		repo := new(testutil.MockRunRepo)
		repo.On("List", mock.Anything, ports.RunListFilter{Limit: tt.want}).Return([]*domain.PipelineRun{}, 0, nil)

		_, _, err := NewRunService(repo).List(context.Background(), ports.RunListFilter{Limit: tt.in})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	}
}

func TestPageFilter_FloorsOffset(t *testing.T) {
	got := PageFilter(ports.RunListFilter{Status: "FAILED", Limit: 10, Offset: -4})
	assert.Equal(t, ports.RunListFilter{Status: "FAILED", Limit: 10, Offset: 0}, got)
}

func TestRunService_Get(t *testing.T) {
	repo := new(testutil.MockRunRepo)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRunNotFound)

	_, err := NewRunService(repo).Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
