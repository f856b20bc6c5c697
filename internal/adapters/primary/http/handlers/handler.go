package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"vehicle-insurance-mlops/internal/core/domain"
	"vehicle-insurance-mlops/internal/core/services"
)

//go:embed templates/*.html
var templateFS embed.FS

func init() {
	// JSON numbers keep their literal form for the feature record
	binding.EnableDecoderUseNumber = true
}

type Handler struct {
	schema        *domain.Schema
	pipelineSvc   *services.PipelineService
	predictionSvc *services.PredictionService
	runSvc        *services.RunService
	metrics       http.Handler
	templates     *template.Template
}

// New builds the HTTP handler. metrics may be nil to disable /metrics.
func New(
	schema *domain.Schema,
	pipelineSvc *services.PipelineService,
	predictionSvc *services.PredictionService,
	runSvc *services.RunService,
	metrics http.Handler,
) *Handler {
	return &Handler{
		schema:        schema,
		pipelineSvc:   pipelineSvc,
		predictionSvc: predictionSvc,
		runSvc:        runSvc,
		metrics:       metrics,
		templates:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.templates)

	// Prediction Service
	r.GET("/", h.Index)
	r.POST("/", h.Predict)
	r.GET("/train", h.Train)

	// Operations
	r.GET("/healthz", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api/v1")
	api.GET("/runs", h.ListRuns)
	api.GET("/runs/:id", h.GetRun)
	api.GET("/registry", h.GetRegistry)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"model_loaded": h.predictionSvc.Loaded(),
	})
}
