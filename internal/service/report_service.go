package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/export"
	"github.com/noah-isme/gradebook-api/pkg/logger"
)

// Report formats.
const (
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

var reportHeaders = []string{"#", "Code", "Student", "Unit 1", "Unit 2", "Final"}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type reportRenderer interface {
	Render(table export.Table) ([]byte, error)
	ContentType() string
	Extension() string
}

type sheetSource interface {
	EditedSheet(ctx context.Context, userID, courseID string, req dto.GradeRowsRequest) (*GradeSheet, error)
}

// ReportDocument is a rendered grade report.
type ReportDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService renders printable grade reports.
type ReportService struct {
	sheets    sheetSource
	renderers map[string]reportRenderer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewReportService constructs the service with the PDF and CSV renderers.
func NewReportService(sheets sheetSource, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		sheets: sheets,
		renderers: map[string]reportRenderer{
			ReportFormatPDF: &export.PDFExporter{
				ColumnWeights: []float64{1, 2, 6, 2, 2, 2},
				Align:         []string{export.AlignCenter, export.AlignCenter, export.AlignLeft},
			},
			ReportFormatCSV: export.NewCSVExporter(),
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Export renders the grade report of a course. Submitted rows replace the
// stored ones of the same students. Any invalid rendered cell refuses the export.
func (s *ReportService) Export(ctx context.Context, userID, courseID, format string, req dto.GradeRowsRequest) (*ReportDocument, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatPDF
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}

	sheet, err := s.sheets.EditedSheet(ctx, userID, courseID, req)
	if err != nil {
		return nil, err
	}
	if report := sheet.Session.Validate(sheet.Rows); !report.OK() {
		s.metrics.RecordRefusal("report_export", RefusedInvalidScores)
		return nil, InvalidScoresError(report)
	}

	table := ReportTable(sheet)
	body, err := renderer.Render(table)
	if err != nil {
		logger.For(ctx, s.logger).Error("render report", zap.String("course_id", courseID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render report")
	}
	s.metrics.RecordExport(format)

	return &ReportDocument{
		Filename:    reportFilename(sheet.Course.Code, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// ReportTable projects a sheet into report rows: rank in surname order, code,
// "surname, given name" and the two-decimal unit and final scores.
func ReportTable(sheet *GradeSheet) export.Table {
	table := export.Table{
		Title:   fmt.Sprintf("Grade Report - %s - %s", sheet.Course.Code, sheet.Course.Name),
		Headers: reportHeaders,
		Rows:    make([][]string, 0, len(sheet.Rows)),
	}
	for i, row := range sheet.Rows {
		res := sheet.Session.Compute(row)
		st := sheet.Students[i]
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			st.Code,
			st.DisplayName(),
			formatScore(res.Unit1),
			formatScore(res.Unit2),
			formatScore(res.Final),
		})
	}
	return table
}

func formatScore(v float64) string {
	return strconv.FormatFloat(grading.Round2(v), 'f', 2, 64)
}

func reportFilename(courseCode, ext string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(courseCode, "_"), "_")
	if name == "" {
		name = "course"
	}
	return fmt.Sprintf("grade_report_%s.%s", name, ext)
}
