package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

type reportService interface {
	Export(ctx context.Context, userID, courseID, format string, req dto.GradeRowsRequest) (*service.ReportDocument, error)
}

// ReportHandler streams grade reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Stored godoc
// @Summary Export stored grades
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Course ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/report [get]
func (h *ReportHandler) Stored(c *gin.Context) {
	h.export(c, dto.GradeRowsRequest{})
}

// Edited godoc
// @Summary Export with unsaved edits
// @Description Rows in the body replace the stored rows of the same students
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Course ID"
// @Param format query string false "pdf or csv" default(pdf)
// @Param payload body dto.GradeRowsRequest true "Edited rows"
// @Success 200 {file} file
// @Failure 422 {object} response.Envelope
// @Router /courses/{id}/report [post]
func (h *ReportHandler) Edited(c *gin.Context) {
	var req dto.GradeRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.export(c, req)
}

func (h *ReportHandler) export(c *gin.Context, req dto.GradeRowsRequest) {
	doc, err := h.service.Export(c.Request.Context(), userIDFromContext(c), c.Param("id"), c.Query("format"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Body)
}
