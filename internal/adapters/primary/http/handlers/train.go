package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicle-insurance-mlops/internal/adapters/primary/http/dto"
)

// Train runs the full pipeline synchronously. The run is detached from the
// request so a disconnecting client does not abort it.
func (h *Handler) Train(c *gin.Context) {
	run, err := h.pipelineSvc.Run(context.WithoutCancel(c.Request.Context()))

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	resp := dto.ToTrainResponse(run, err)

	if wantsJSON(c) {
		c.JSON(status, resp)
		return
	}
	c.HTML(status, "train.html", resp)
}
