package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vehicle-insurance-mlops/internal/core/domain"
)

func statusFor(err error) int {
	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrPredictionInput):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrTrainingInProgress):
		return http.StatusConflict

	// Pipeline rejected its input
	case errors.Is(err, domain.ErrSchemaValidation),
		errors.Is(err, domain.ErrInvalidSchema),
		errors.Is(err, domain.ErrTraining):
		return http.StatusUnprocessableEntity

	// Upstream stores failed
	case errors.Is(err, domain.ErrConnection),
		errors.Is(err, domain.ErrDataAccess):
		return http.StatusBadGateway

	// Service unavailable errors
	case errors.Is(err, domain.ErrModelNotRegistered):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func mapDomainError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var perr *domain.PredictionInputError
	if errors.As(err, &perr) {
		body["problems"] = perr.Problems
	}
	c.JSON(status, body)
}

// wantsJSON reports whether the client sent or asked for JSON.
func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON ||
		strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
