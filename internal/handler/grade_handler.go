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

type gradeService interface {
	Table(ctx context.Context, userID, courseID string) (*models.GradeTable, error)
	Preview(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*models.GradeTable, error)
	Save(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*models.GradeSaveResult, error)
	Layout(ctx context.Context, userID, courseID string) (*dto.LayoutResponse, error)
	AdjustSlots(ctx context.Context, userID, courseID, rawKey string, req dto.SlotAdjustRequest) (*dto.LayoutResponse, error)
}

// GradeHandler serves the grade table of a course.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(service gradeService) *GradeHandler {
	return &GradeHandler{service: service}
}

// Table godoc
// @Summary Grade table
// @Description Students in surname order with cells, averages, unit and final scores
// @Tags Grades
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/grades [get]
func (h *GradeHandler) Table(c *gin.Context) {
	table, err := h.service.Table(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}

// Preview godoc
// @Summary Recompute edited rows
// @Description Computes averages for unsaved edits without persisting them
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.GradeRowsRequest true "Edited rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/grades/preview [post]
func (h *GradeHandler) Preview(c *gin.Context) {
	var req dto.GradeRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	table, err := h.service.Preview(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}

// Save godoc
// @Summary Save grades
// @Description Keys a row leaves out keep their stored values. Refused with INVALID_SCORES while any stored or submitted cell is invalid
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.GradeRowsRequest true "Rows to save"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/grades [put]
func (h *GradeHandler) Save(c *gin.Context) {
	var req dto.GradeRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), userIDFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Layout godoc
// @Summary Slot layout
// @Tags Grades
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/grades/layout [get]
func (h *GradeHandler) Layout(c *gin.Context) {
	layout, err := h.service.Layout(c.Request.Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layout)
}

// AdjustSlots godoc
// @Summary Add or remove a score slot
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param key path string true "Grade key, e.g. u1_cc"
// @Param payload body dto.SlotAdjustRequest true "Delta"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/grades/layout/{key}/slots [post]
func (h *GradeHandler) AdjustSlots(c *gin.Context) {
	var req dto.SlotAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	layout, err := h.service.AdjustSlots(c.Request.Context(), userIDFromContext(c), c.Param("id"), c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layout)
}
