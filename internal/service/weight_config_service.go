package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/logger"
)

const (
	msgWeightsLoaded   = "weight configuration loaded"
	msgWeightsDefaults = "course has no weight configuration; using default values"
	msgWeightsSaved    = "weight configuration saved"
)

type weightConfigRepository interface {
	FindByCourse(ctx context.Context, courseID string) (*models.WeightConfig, error)
	Upsert(ctx context.Context, cfg *models.WeightConfig) error
}

// WeightConfigService reads and writes per-course criterion weights.
type WeightConfigService struct {
	repo      weightConfigRepository
	courses   courseLookup
	analytics analyticsInvalidator
	metrics   *MetricsService
	defaults  grading.Weights
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWeightConfigService constructs the service. defaults apply to courses
// that never saved a configuration.
func NewWeightConfigService(repo weightConfigRepository, courses courseLookup, analytics analyticsInvalidator, metrics *MetricsService, defaults grading.Weights, validate *validator.Validate, logger *zap.Logger) *WeightConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeightConfigService{repo: repo, courses: courses, analytics: analytics, metrics: metrics, defaults: defaults, validator: validate, logger: logger}
}

// Defaults returns the weights applied to unconfigured courses.
func (s *WeightConfigService) Defaults() grading.Weights {
	return s.defaults
}

// Weights returns the stored weights of a course, or nil when none were saved.
func (s *WeightConfigService) Weights(ctx context.Context, courseID string) (*grading.Weights, *time.Time, error) {
	cfg, err := s.repo.FindByCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		s.logger.Error("load weight config", zap.String("course_id", courseID), zap.Error(err))
		return nil, nil, appErrors.Internal(err, "failed to load weight configuration")
	}
	w := cfg.Weights()
	updated := cfg.UpdatedAt
	return &w, &updated, nil
}

// Get returns the effective weights of a course.
func (s *WeightConfigService) Get(ctx context.Context, courseID string) (*models.WeightConfigView, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	stored, updated, err := s.Weights(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return weightView(courseID, s.defaults, true, msgWeightsDefaults, nil), nil
	}
	return weightView(courseID, *stored, false, msgWeightsLoaded, updated), nil
}

// Save validates and overwrites the weights of a course. Nothing is written
// when any unit fails to sum to 100.
func (s *WeightConfigService) Save(ctx context.Context, courseID string, req dto.WeightsRequest) (*models.WeightConfigView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "every weight from u1_cc to u2_ca needs a value")
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	weights, err := weightsFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := weights.Validate(); err != nil {
		s.metrics.RecordRefusal("weights_save", RefusedInvalidWeights)
		var werr *grading.WeightsError
		if errors.As(err, &werr) {
			return nil, appErrors.WithDetails(appErrors.ErrInvalidWeights, werr.Error(), weightErrorDetails(weights, werr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
	}

	cfg := models.NewWeightConfig(courseID, weights, time.Now().UTC())
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		logger.For(ctx, s.logger).Error("save weight config", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to save weight configuration")
	}
	if s.analytics != nil {
		s.analytics.InvalidateCourse(ctx, courseID)
	}
	return weightView(courseID, weights, false, msgWeightsSaved, &cfg.UpdatedAt), nil
}

func (s *WeightConfigService) requireCourse(ctx context.Context, courseID string) error {
	if strings.TrimSpace(courseID) == "" {
		return appErrors.ErrMissingSelection
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Internal(err, "failed to load course")
	}
	return nil
}

func weightsFromRequest(req dto.WeightsRequest) (grading.Weights, error) {
	var w grading.Weights
	seen := make(map[grading.Key]bool, grading.KeyCount)
	for raw, value := range req.Weights {
		key, err := grading.ParseKey(raw)
		if err != nil {
			return w, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weight key %q", raw))
		}
		w = w.With(key, *value)
		seen[key] = true
	}
	var missing []string
	for _, k := range grading.Keys() {
		if !seen[k] {
			missing = append(missing, k.String())
		}
	}
	if len(missing) > 0 {
		return w, appErrors.Clone(appErrors.ErrValidation, "missing weights: "+strings.Join(missing, ", "))
	}
	return w, nil
}

func weightView(courseID string, w grading.Weights, defaults bool, message string, updated *time.Time) *models.WeightConfigView {
	view := &models.WeightConfigView{
		CourseID:        courseID,
		Weights:         make(map[string]float64, grading.KeyCount),
		UnitSums:        make(map[string]float64, len(grading.Units)),
		DefaultsApplied: defaults,
		Message:         message,
		UpdatedAt:       updated,
	}
	for _, k := range grading.Keys() {
		view.Weights[k.String()] = w.Of(k)
	}
	for _, u := range grading.Units {
		view.UnitSums[fmt.Sprintf("u%d", u)] = w.UnitSum(u)
	}
	return view
}

func weightErrorDetails(w grading.Weights, werr *grading.WeightsError) map[string]interface{} {
	sums := make(map[string]float64, len(werr.BadUnits))
	for _, u := range werr.BadUnits {
		sums[fmt.Sprintf("u%d", u)] = w.UnitSum(u)
	}
	outOfRange := make([]string, 0, len(werr.OutOfRange))
	for _, k := range werr.OutOfRange {
		outOfRange = append(outOfRange, k.String())
	}
	return map[string]interface{}{
		"unit_sums":    sums,
		"out_of_range": outOfRange,
	}
}
