package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/adapters/primary/http/dto"
	"vehicle-insurance-mlops/internal/core/ports/output"
	"vehicle-insurance-mlops/internal/core/services"
)

func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := services.PageFilter(ports.RunListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})

	runs, total, err := h.runSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list pipeline runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PipelineRunResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, dto.ToPipelineRunResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListPipelineRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   filter.Limit,
		NextOffset: filter.Offset + len(items),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineRunResponse(run))
}
