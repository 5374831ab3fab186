package service

import (
	"context"
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

type gradeRecordRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.GradeRecord, error)
	UpsertBatch(ctx context.Context, records []models.GradeRecord) error
}

type rosterSource interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
}

type weightSource interface {
	Weights(ctx context.Context, courseID string) (*grading.Weights, *time.Time, error)
	Defaults() grading.Weights
}

// GradeSheet is a course's roster in surname order with one grade row per
// student, evaluated under a session.
type GradeSheet struct {
	Course   models.Course
	Session  *grading.Session
	Students []models.Student
	Rows     []grading.Row
}

// GradeService loads, recomputes and saves grade sheets.
type GradeService struct {
	records   gradeRecordRepository
	students  rosterSource
	courses   courseLookup
	weights   weightSource
	layouts   *LayoutStore
	analytics analyticsInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the service. analytics and metrics may be nil.
func NewGradeService(records gradeRecordRepository, students rosterSource, courses courseLookup, weights weightSource, layouts *LayoutStore, analytics analyticsInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if layouts == nil {
		layouts = NewLayoutStore(nil, 0)
	}
	return &GradeService{records: records, students: students, courses: courses, weights: weights, layouts: layouts, analytics: analytics, metrics: metrics, validator: validate, logger: logger}
}

// Table returns the stored grade sheet of a course as seen by userID. The
// instructor's layout is widened so no stored value is hidden.
func (s *GradeService) Table(ctx context.Context, userID, courseID string) (*models.GradeTable, error) {
	sheet, err := s.loadSheet(ctx, courseID, s.layouts.Load(ctx, userID, courseID))
	if err != nil {
		return nil, err
	}
	before := sheet.Session.Layout
	sheet.Session.FitLayout(sheet.Rows)
	if sheet.Session.Layout != before {
		s.layouts.Save(ctx, userID, courseID, sheet.Session.Layout)
	}
	return buildTable(sheet, sheet.Rows), nil
}

// StoredSheet returns the stored grade sheet with a layout wide enough for all
// stored values. It does not depend on any instructor session.
func (s *GradeService) StoredSheet(ctx context.Context, courseID string) (*GradeSheet, error) {
	sheet, err := s.loadSheet(ctx, courseID, grading.DefaultLayout())
	if err != nil {
		return nil, err
	}
	sheet.Session.FitLayout(sheet.Rows)
	return sheet, nil
}

// EditedSheet overlays submitted rows on the stored sheet under userID's
// layout, widened so no stored or submitted value is hidden.
func (s *GradeService) EditedSheet(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*GradeSheet, error) {
	sheet, err := s.loadSheet(ctx, courseID, s.layouts.Load(ctx, userID, courseID))
	if err != nil {
		return nil, err
	}
	edited, err := s.applyEdits(sheet, req)
	if err != nil {
		return nil, err
	}
	for i, st := range sheet.Students {
		if row, ok := edited[st.ID]; ok {
			sheet.Rows[i] = row
		}
	}
	return sheet, nil
}

// Preview recomputes submitted rows without persisting anything. Invalid
// cells are reported but never block the computation.
func (s *GradeService) Preview(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*models.GradeTable, error) {
	sheet, err := s.loadSheet(ctx, courseID, s.layouts.Load(ctx, userID, courseID))
	if err != nil {
		return nil, err
	}
	edited, err := s.applyEdits(sheet, req)
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(edited))
	rows := make([]grading.Row, 0, len(edited))
	ordinals := make([]int, 0, len(edited))
	for i, st := range sheet.Students {
		if row, ok := edited[st.ID]; ok {
			students = append(students, st)
			rows = append(rows, row)
			ordinals = append(ordinals, i+1)
		}
	}
	sheet.Students = students
	table := buildTable(sheet, rows)
	for i := range table.Rows {
		table.Rows[i].Ordinal = ordinals[i]
	}
	return table, nil
}

// Save validates every rendered cell of the submitted rows and, when all are
// valid, writes one record per student and unit in a single transaction.
// Keys a row leaves out keep their stored values.
func (s *GradeService) Save(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*models.GradeSaveResult, error) {
	initial := s.layouts.Load(ctx, userID, courseID)
	sheet, err := s.loadSheet(ctx, courseID, initial)
	if err != nil {
		return nil, err
	}
	edited, err := s.applyEdits(sheet, req)
	if err != nil {
		s.metrics.RecordRefusal("grades_save", RefusedMalformedRows)
		return nil, err
	}

	rows := make([]grading.Row, 0, len(edited))
	for _, st := range sheet.Students {
		if row, ok := edited[st.ID]; ok {
			rows = append(rows, row)
		}
	}
	if report := sheet.Session.Validate(rows); !report.OK() {
		s.metrics.RecordRefusal("grades_save", RefusedInvalidScores)
		return nil, InvalidScoresError(report)
	}

	records := make([]models.GradeRecord, 0, len(rows)*len(grading.Units))
	for _, row := range rows {
		for _, u := range grading.Units {
			rec := models.GradeRecord{StudentID: row.StudentID, CourseID: courseID, Unit: int(u)}
			for _, c := range grading.Criteria {
				rec.SetSlots(c, sheet.Session.VisibleRaw(row, grading.Key{Unit: u, Criterion: c}))
			}
			records = append(records, rec)
		}
	}

	start := time.Now()
	if err := s.records.UpsertBatch(ctx, records); err != nil {
		logger.For(ctx, s.logger).Error("save grades", zap.String("course_id", courseID), zap.Int("records", len(records)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to save grades")
	}
	s.metrics.ObserveDBQuery("grades_save", time.Since(start))
	s.metrics.RecordGradeSave(len(records))
	if sheet.Session.Layout != initial {
		s.layouts.Save(ctx, userID, courseID, sheet.Session.Layout)
	}
	if s.analytics != nil {
		s.analytics.InvalidateCourse(ctx, courseID)
	}
	logger.For(ctx, s.logger).Info("grades saved", zap.String("course_id", courseID), zap.String("user_id", userID), zap.Int("records", len(records)))
	return &models.GradeSaveResult{Students: len(rows), Records: len(records)}, nil
}

// Layout returns the slot layout of userID for a course.
func (s *GradeService) Layout(ctx context.Context, userID, courseID string) (*dto.LayoutResponse, error) {
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	layout := s.layouts.Load(ctx, userID, courseID)
	return &dto.LayoutResponse{CourseID: courseID, Layout: layout.Map()}, nil
}

// AdjustSlots adds or removes one rendered slot of a criterion within [1, 3].
func (s *GradeService) AdjustSlots(ctx context.Context, userID, courseID, rawKey string, req dto.SlotAdjustRequest) (*dto.LayoutResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "delta must be 1 or -1")
	}
	if err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}
	key, err := grading.ParseKey(rawKey)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grade key %q", rawKey))
	}
	layout := s.layouts.Load(ctx, userID, courseID)
	if err := layout.Adjust(key, req.Delta); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("%s must keep between %d and %d slots", key, grading.MinSlots, grading.MaxSlots))
	}
	s.layouts.Save(ctx, userID, courseID, layout)
	return &dto.LayoutResponse{CourseID: courseID, Layout: layout.Map()}, nil
}

// InvalidScoresError builds the refusal returned when a table holds invalid cells.
func InvalidScoresError(report grading.ValidationReport) error {
	first, _ := report.First()
	message := fmt.Sprintf("%d invalid score(s); values must be between %g and %g or %s", report.InvalidCount, grading.MinScore, grading.MaxScore, grading.NotPresentedToken)
	return appErrors.WithDetails(appErrors.ErrInvalidScores, message, map[string]interface{}{
		"invalid_count": report.InvalidCount,
		"first_invalid": first,
		"invalid":       report.Invalid,
	})
}

func (s *GradeService) requireCourse(ctx context.Context, courseID string) error {
	_, err := s.course(ctx, courseID)
	return err
}

func (s *GradeService) course(ctx context.Context, courseID string) (*models.Course, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.ErrMissingSelection
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, notFoundOrInternal(err, "course not found", "failed to load course")
	}
	return course, nil
}

func (s *GradeService) loadSheet(ctx context.Context, courseID string, layout grading.SlotLayout) (*GradeSheet, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	weights, _, err := s.weights.Weights(ctx, courseID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	students, err := s.students.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("load roster", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load students")
	}
	records, err := s.records.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("load grade records", zap.String("course_id", courseID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load grades")
	}
	s.metrics.ObserveDBQuery("grades_load", time.Since(start))

	sortBySurname(students)
	byStudent := make(map[string][]models.GradeRecord, len(students))
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}
	rows := make([]grading.Row, len(students))
	for i, st := range students {
		rows[i] = rowFromRecords(st.ID, byStudent[st.ID])
	}

	return &GradeSheet{
		Course:   *course,
		Session:  grading.NewSession(courseID, weights, s.weights.Defaults(), layout),
		Students: students,
		Rows:     rows,
	}, nil
}

// applyEdits merges the submitted cells over the stored rows and widens the
// session layout until every stored and submitted value is rendered.
func (s *GradeService) applyEdits(sheet *GradeSheet, req dto.GradeRowsRequest) (map[string]grading.Row, error) {
	edited, err := s.parseRows(sheet, req)
	if err != nil {
		return nil, err
	}
	sheet.Session.FitLayout(sheet.Rows)
	for _, row := range edited {
		sheet.Session.FitLayout([]grading.Row{row})
	}
	return edited, nil
}

func (s *GradeService) parseRows(sheet *GradeSheet, req dto.GradeRowsRequest) (map[string]grading.Row, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "every row needs a student_id")
	}
	stored := make(map[string]grading.Row, len(sheet.Students))
	for i, st := range sheet.Students {
		stored[st.ID] = sheet.Rows[i]
	}
	out := make(map[string]grading.Row, len(req.Rows))
	for _, in := range req.Rows {
		base, ok := stored[in.StudentID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not enrolled in this course", in.StudentID))
		}
		if _, dup := out[in.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s submitted twice", in.StudentID))
		}
		raw := make(map[grading.Key][]string, len(in.Cells))
		for name, values := range in.Cells {
			key, err := grading.ParseKey(name)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown grade key %q", name))
			}
			if len(values) > grading.MaxSlots {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s accepts at most %d values", key, grading.MaxSlots))
			}
			raw[key] = values
		}
		out[in.StudentID] = base.With(raw)
	}
	return out, nil
}

func rowFromRecords(studentID string, records []models.GradeRecord) grading.Row {
	raw := make(map[grading.Key][]string, grading.KeyCount)
	for _, rec := range records {
		u := grading.Unit(rec.Unit)
		if u != grading.Unit1 && u != grading.Unit2 {
			continue
		}
		for _, c := range grading.Criteria {
			raw[grading.Key{Unit: u, Criterion: c}] = rec.Slots(c)
		}
	}
	return grading.NewRow(studentID, raw)
}

func buildTable(sheet *GradeSheet, rows []grading.Row) *models.GradeTable {
	sess := sheet.Session
	table := &models.GradeTable{
		Course:          sheet.Course,
		Weights:         make(map[string]float64, grading.KeyCount),
		DefaultsApplied: sess.DefaultsApplied,
		Layout:          sess.Layout.Map(),
		Rows:            make([]models.GradeRowView, 0, len(rows)),
		Validation:      sess.Validate(rows),
	}
	for _, k := range grading.Keys() {
		table.Weights[k.String()] = sess.Weights.Of(k)
	}
	for i, row := range rows {
		table.Rows = append(table.Rows, rowView(sess, i+1, sheet.Students[i], row))
	}
	return table
}

func rowView(sess *grading.Session, ordinal int, st models.Student, row grading.Row) models.GradeRowView {
	res := sess.Compute(row)
	view := models.GradeRowView{
		Ordinal:   ordinal,
		StudentID: st.ID,
		Code:      st.Code,
		Name:      st.DisplayName(),
		Criteria:  make(map[string]models.CriterionView, grading.KeyCount),
		Unit1:     grading.Round2(res.Unit1),
		Unit2:     grading.Round2(res.Unit2),
		Final:     grading.Round2(res.Final),
		Band:      grading.Classify(res.Final),
	}
	for _, k := range grading.Keys() {
		slots := sess.Visible(row, k)
		cells := make([]models.GradeCell, len(slots))
		for i, sc := range slots {
			cells[i] = models.GradeCell{Raw: sc.Raw, State: sc.State}
		}
		view.Criteria[k.String()] = models.CriterionView{
			Slots:    cells,
			Average:  grading.Round2(res.Averages[k.Index()]),
			HasGrade: res.HasGrade[k.Index()],
		}
	}
	return view
}
