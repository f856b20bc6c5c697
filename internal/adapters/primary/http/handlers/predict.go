package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"vehicle-insurance-mlops/internal/adapters/primary/http/dto"
	"vehicle-insurance-mlops/internal/core/domain"
)

type formField struct {
	Name       string
	Numeric    bool
	Required   bool
	Categories []string
	Value      string
}

type indexPage struct {
	Fields   []formField
	Result   *dto.PredictionResponse
	Error    string
	Problems []string
}

func (h *Handler) page(values map[string]string) indexPage {
	var p indexPage
	for _, col := range h.schema.Columns {
		p.Fields = append(p.Fields, formField{
			Name:       col.Name,
			Numeric:    col.Kind == domain.KindNumeric,
			Required:   col.IsRequired(),
			Categories: col.Categories,
			Value:      values[col.Name],
		})
	}
	return p
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page(nil))
}

func (h *Handler) Predict(c *gin.Context) {
	rec, err := h.bindRecord(c)
	if err != nil {
		h.predictError(c, rec, &domain.PredictionInputError{Problems: []string{err.Error()}})
		return
	}

	p, m, err := h.predictionSvc.Predict(c.Request.Context(), rec)
	if err != nil {
		if !errors.Is(err, domain.ErrPredictionInput) {
			log.WithError(err).Error("prediction failed")
		}
		h.predictError(c, rec, err)
		return
	}

	resp := dto.ToPredictionResponse(p, m)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, resp)
		return
	}
	page := h.page(rec)
	page.Result = &resp
	c.HTML(http.StatusOK, "index.html", page)
}

func (h *Handler) predictError(c *gin.Context, rec map[string]string, err error) {
	if wantsJSON(c) {
		mapDomainError(c, err)
		return
	}

	page := h.page(rec)
	status := statusFor(err)
	var perr *domain.PredictionInputError
	switch {
	case errors.As(err, &perr):
		page.Error = "Please correct the highlighted fields."
		page.Problems = perr.Problems
	case status == http.StatusInternalServerError:
		page.Error = "Prediction failed."
	default:
		page.Error = err.Error()
	}
	c.HTML(status, "index.html", page)
}

// bindRecord reads the feature record from a JSON object or a form post.
func (h *Handler) bindRecord(c *gin.Context) (map[string]string, error) {
	rec := make(map[string]string, len(h.schema.Columns))

	if c.ContentType() != gin.MIMEJSON {
		for _, col := range h.schema.Columns {
			if v, ok := c.GetPostForm(col.Name); ok {
				rec[col.Name] = strings.TrimSpace(v)
			}
		}
		return rec, nil
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return rec, fmt.Errorf("request body must be a JSON object: %v", err)
	}
	for k, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			rec[k] = strings.TrimSpace(val)
		case json.Number:
			rec[k] = val.String()
		case bool:
			rec[k] = fmt.Sprint(val)
		default:
			return rec, fmt.Errorf("%s must be a string or a number", k)
		}
	}
	return rec, nil
}
