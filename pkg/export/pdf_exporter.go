package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	landscapeWidth = 277.0
	rowHeight      = 7.0
)

// Cell alignments understood by gofpdf.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// PDFExporter renders a Table into a landscape A4 document with striped rows.
type PDFExporter struct {
	// ColumnWeights sizes columns relative to each other. Missing entries count as 1.
	ColumnWeights []float64
	// Align sets the body alignment per column. Missing entries are centered.
	Align []string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(columnWeights ...float64) *PDFExporter {
	return &PDFExporter{ColumnWeights: columnWeights}
}

// ContentType returns the MIME type of the rendered document.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension returns the file extension of the rendered document.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates the PDF document with the table title on top.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if err := table.check(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(table.Title), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	widths := e.widths(len(table.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range table.Headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for r, row := range table.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		if r%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for i, value := range row {
			pdf.CellFormat(widths[i], rowHeight, tr(value), "1", 0, e.align(i), true, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) align(column int) string {
	if column < len(e.Align) && e.Align[column] != "" {
		return e.Align[column]
	}
	return AlignCenter
}

func (e *PDFExporter) widths(columns int) []float64 {
	weights := make([]float64, columns)
	total := 0.0
	for i := range weights {
		weights[i] = 1
		if i < len(e.ColumnWeights) && e.ColumnWeights[i] > 0 {
			weights[i] = e.ColumnWeights[i]
		}
		total += weights[i]
	}
	for i := range weights {
		weights[i] = landscapeWidth * weights[i] / total
	}
	return weights
}
