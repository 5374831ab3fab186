package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/logger"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	DeleteCascade(ctx context.Context, id string) error
}

// analyticsInvalidator drops cached analytics touching a course.
type analyticsInvalidator interface {
	InvalidateCourse(ctx context.Context, courseID string)
}

// CourseService manages courses.
type CourseService struct {
	repo      courseRepository
	analytics analyticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service. analytics may be nil.
func NewCourseService(repo courseRepository, analytics analyticsInvalidator, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, analytics: analytics, validator: validate, logger: logger}
}

// List returns every course ordered by code.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list courses", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.ErrMissingSelection
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("load course", zap.String("course_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load course")
	}
	return course, nil
}

// Create registers a course.
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	req = trimCourse(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "code, name and term are required")
	}
	course := &models.Course{Code: req.Code, Name: req.Name, Term: req.Term}
	if err := s.repo.Create(ctx, course); err != nil {
		s.logger.Error("create course", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create course")
	}
	return course, nil
}

// Update overwrites a course's code, name and term.
func (s *CourseService) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	req = trimCourse(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "code, name and term are required")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Code, course.Name, course.Term = req.Code, req.Name, req.Term
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.logger.Error("update course", zap.String("course_id", id), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to update course")
	}
	return course, nil
}

// Delete removes a course with its students, grade records and weights.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.ErrMissingSelection
	}
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		logger.For(ctx, s.logger).Error("delete course", zap.String("course_id", id), zap.Error(err))
		return appErrors.Internal(err, "failed to delete course")
	}
	if s.analytics != nil {
		s.analytics.InvalidateCourse(ctx, id)
	}
	logger.For(ctx, s.logger).Info("course deleted", zap.String("course_id", id))
	return nil
}

func trimCourse(req dto.CourseRequest) dto.CourseRequest {
	return dto.CourseRequest{
		Code: strings.TrimSpace(req.Code),
		Name: strings.TrimSpace(req.Name),
		Term: strings.TrimSpace(req.Term),
	}
}
