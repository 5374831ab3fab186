package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

const rosterFormField = "file"

type studentService interface {
	List(ctx context.Context, courseID string) ([]models.RosterEntry, error)
	Create(ctx context.Context, courseID string, req dto.CreateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, courseID, filename string, file io.Reader) (*models.ImportResult, error)
}

// StudentHandler manages enrollment endpoints.
type StudentHandler struct {
	service   studentService
	maxUpload int64
}

// NewStudentHandler constructs the handler. maxUpload <= 0 disables the size check.
func NewStudentHandler(service studentService, maxUpload int64) *StudentHandler {
	return &StudentHandler{service: service, maxUpload: maxUpload}
}

// List godoc
// @Summary List students of a course
// @Description Students sorted by surname with their 1-based position
// @Tags Students
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	roster, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, map[string]interface{}{"total": len(roster)})
}

// Create godoc
// @Summary Enroll a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Import godoc
// @Summary Import students from a spreadsheet
// @Description Accepts the first sheet of an .xlsx workbook or a .csv file
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param file formData file true "Roster file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	}
	header, err := c.FormFile(rosterFormField)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "roster file is required"))
		return
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("roster file exceeds %d bytes", h.maxUpload)))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read roster file"))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), c.Param("id"), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete godoc
// @Summary Remove a student
// @Description Removes the student together with their grade records
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204 {string} string "No Content"
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
