package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	"github.com/noah-isme/gradebook-api/pkg/spreadsheet"
)

type studentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	CreateBatch(ctx context.Context, students []models.Student) error
	DeleteCascade(ctx context.Context, id string) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// StudentService manages course rosters.
type StudentService struct {
	students  studentRepository
	courses   courseLookup
	analytics analyticsInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service. analytics and metrics may be nil.
func NewStudentService(students studentRepository, courses courseLookup, analytics analyticsInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, courses: courses, analytics: analytics, metrics: metrics, validator: validate, logger: logger}
}

// List returns the roster of a course in surname order with ordinals.
func (s *StudentService) List(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	students, err := s.students.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("list students", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list students")
	}
	return rosterEntries(students), nil
}

// Create enrolls one student in a course.
func (s *StudentService) Create(ctx context.Context, courseID string, req dto.CreateStudentRequest) (*models.Student, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.ErrMissingSelection
	}
	req = dto.CreateStudentRequest{
		Code:      strings.TrimSpace(req.Code),
		Surname:   strings.TrimSpace(req.Surname),
		GivenName: strings.TrimSpace(req.GivenName),
		Email:     strings.TrimSpace(req.Email),
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "code and surname are required; email must be valid")
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	student := &models.Student{
		CourseID:  courseID,
		Code:      req.Code,
		Surname:   req.Surname,
		GivenName: req.GivenName,
		Email:     req.Email,
	}
	if err := s.students.Create(ctx, student); err != nil {
		s.logger.Error("create student", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create student")
	}
	s.invalidate(ctx, courseID)
	return student, nil
}

// Delete removes a student and its grade records.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("load student", zap.String("student_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to load student")
	}
	if err := s.students.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("delete student", zap.String("student_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete student")
	}
	s.invalidate(ctx, student.CourseID)
	return nil
}

// Import enrolls every roster row of a spreadsheet in one transaction.
func (s *StudentService) Import(ctx context.Context, courseID, filename string, file io.Reader) (*models.ImportResult, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.ErrMissingSelection
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	roster, err := spreadsheet.ReadRoster(filename, file)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "upload an .xlsx or .csv file")
		case errors.Is(err, spreadsheet.ErrMissingColumns), errors.Is(err, spreadsheet.ErrEmpty):
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "spreadsheet could not be read")
	}

	students := make([]models.Student, 0, len(roster.Records))
	skipped := roster.Skipped
	for _, rec := range roster.Records {
		email := rec.Email
		if email != "" && s.validator.Var(email, "email") != nil {
			s.logger.Debug("dropping invalid email on import", zap.Int("line", rec.Line))
			email = ""
		}
		students = append(students, models.Student{
			CourseID:  courseID,
			Code:      rec.Code,
			Surname:   rec.Surname,
			GivenName: rec.GivenName,
			Email:     email,
		})
	}

	if err := s.students.CreateBatch(ctx, students); err != nil {
		logger.For(ctx, s.logger).Error("import students", zap.String("course_id", courseID), zap.Int("rows", len(students)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to import students")
	}
	s.metrics.RecordImport(len(students))
	s.invalidate(ctx, courseID)
	logger.For(ctx, s.logger).Info("students imported", zap.String("course_id", courseID), zap.Int("imported", len(students)), zap.Int("skipped", skipped))
	return &models.ImportResult{Imported: len(students), Skipped: skipped}, nil
}

func (s *StudentService) requireCourse(ctx context.Context, courseID string) error {
	if strings.TrimSpace(courseID) == "" {
		return appErrors.ErrMissingSelection
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("load course", zap.String("course_id", courseID), zap.Error(err))
		return appErrors.Internal(err, "failed to load course")
	}
	return nil
}

func (s *StudentService) invalidate(ctx context.Context, courseID string) {
	if s.analytics != nil {
		s.analytics.InvalidateCourse(ctx, courseID)
	}
}
