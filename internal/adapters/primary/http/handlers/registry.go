package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicle-insurance-mlops/internal/adapters/primary/http/dto"
)

// GetRegistry describes the model this replica serves.
func (h *Handler) GetRegistry(c *gin.Context) {
	m, err := h.predictionSvc.Model(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRegistryResponse(m))
}
