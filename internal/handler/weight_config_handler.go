package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

type weightConfigService interface {
	Get(ctx context.Context, courseID string) (*models.WeightConfigView, error)
	Save(ctx context.Context, courseID string, req dto.WeightsRequest) (*models.WeightConfigView, error)
}

// WeightConfigHandler exposes the per-course weight configuration.
type WeightConfigHandler struct {
	service weightConfigService
}

// NewWeightConfigHandler constructs the handler.
func NewWeightConfigHandler(service weightConfigService) *WeightConfigHandler {
	return &WeightConfigHandler{service: service}
}

// Get godoc
// @Summary Get weight configuration
// @Description Returns stored weights or the defaults with an informational message
// @Tags Weights
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/weights [get]
func (h *WeightConfigHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Save godoc
// @Summary Save weight configuration
// @Description Each unit's weights must sum to 100
// @Tags Weights
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.WeightsRequest true "Weights payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/weights [put]
func (h *WeightConfigHandler) Save(c *gin.Context) {
	var req dto.WeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
