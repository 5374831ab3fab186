package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type studentServiceMock struct {
	filename string
	content  string
	deleted  string
}

func (m *studentServiceMock) List(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	return []models.RosterEntry{{Ordinal: 1, Student: models.Student{ID: "s1", CourseID: courseID, Surname: "Álvarez"}}}, nil
}

func (m *studentServiceMock) Create(ctx context.Context, courseID string, req dto.CreateStudentRequest) (*models.Student, error) {
	if courseID == "" {
		return nil, appErrors.ErrMissingSelection
	}
	return &models.Student{ID: "s2", CourseID: courseID, Code: req.Code, Surname: req.Surname}, nil
}

func (m *studentServiceMock) Delete(ctx context.Context, id string) error {
	if id == "missing" {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	m.deleted = id
	return nil
}

func (m *studentServiceMock) Import(ctx context.Context, courseID, filename string, file io.Reader) (*models.ImportResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	m.filename, m.content = filename, string(raw)
	return &models.ImportResult{Imported: 2}, nil
}

func newStudentRouter(mock *studentServiceMock, maxUpload int64) http.Handler {
	h := NewStudentHandler(mock, maxUpload)
	r := newTestRouter()
	r.GET("/courses/:id/students", h.List)
	r.POST("/courses/:id/students", h.Create)
	r.POST("/courses/:id/students/import", h.Import)
	r.DELETE("/students/:id", h.Delete)
	return r
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/courses/c1/students/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestStudentHandlerImport(t *testing.T) {
	mock := &studentServiceMock{}
	csv := "Código,Apellidos,Nombres\nA1,Ruiz,Ana\nA2,Soto,Eva\n"
	w := httptest.NewRecorder()
	newStudentRouter(mock, 1<<20).ServeHTTP(w, uploadRequest(t, "file", "roster.csv", csv))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "roster.csv", mock.filename)
	assert.Equal(t, csv, mock.content)
	assert.Contains(t, w.Body.String(), `"imported":2`)
}

func TestStudentHandlerImportRejectsOversizedFile(t *testing.T) {
	mock := &studentServiceMock{}
	w := httptest.NewRecorder()
	newStudentRouter(mock, 8).ServeHTTP(w, uploadRequest(t, "file", "roster.csv", "Código,Apellidos\nA1,Ruiz\n"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.filename)
}

func TestStudentHandlerImportRequiresFile(t *testing.T) {
	w := httptest.NewRecorder()
	newStudentRouter(&studentServiceMock{}, 0).ServeHTTP(w, uploadRequest(t, "other", "roster.csv", "x"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentHandlerCreateAndList(t *testing.T) {
	r := newStudentRouter(&studentServiceMock{}, 0)

	w := doJSON(r, http.MethodPost, "/courses/c1/students", dto.CreateStudentRequest{Code: "A3", Surname: "Paz"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"surname":"Paz"`)

	w = doJSON(r, http.MethodGet, "/courses/c1/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, env.Meta["total"])
}

func TestStudentHandlerDelete(t *testing.T) {
	mock := &studentServiceMock{}
	r := newStudentRouter(mock, 0)

	w := doJSON(r, http.MethodDelete, "/students/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s1", mock.deleted)

	w = doJSON(r, http.MethodDelete, "/students/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
