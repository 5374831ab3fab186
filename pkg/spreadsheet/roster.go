// Package spreadsheet reads student rosters from xlsx and csv uploads.
package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrMissingColumns is returned when the header row lacks the code or surname column.
	ErrMissingColumns = errors.New("spreadsheet must contain code and surname columns")
	// ErrEmpty is returned when the first sheet has no header row.
	ErrEmpty = errors.New("spreadsheet is empty")
)

// Field identifies a roster column.
type Field int

const (
	FieldCode Field = iota
	FieldSurname
	FieldGivenName
	FieldEmail
	fieldCount
)

var headerAliases = map[string]Field{
	"codigo":       FieldCode,
	"code":         FieldCode,
	"student code": FieldCode,
	"apellidos":    FieldSurname,
	"apellido":     FieldSurname,
	"surname":      FieldSurname,
	"last name":    FieldSurname,
	"lastname":     FieldSurname,
	"nombres":      FieldGivenName,
	"nombre":       FieldGivenName,
	"given name":   FieldGivenName,
	"first name":   FieldGivenName,
	"firstname":    FieldGivenName,
	"correo":       FieldEmail,
	"email":        FieldEmail,
	"e-mail":       FieldEmail,
}

// Record is one roster row. Line is the 1-based row number in the source file.
type Record struct {
	Line      int
	Code      string
	Surname   string
	GivenName string
	Email     string
}

// Roster is the parsed content of an upload.
type Roster struct {
	Records []Record
	// Skipped counts non-blank rows missing a code or surname.
	Skipped int
}

// ReadRoster parses the first sheet of an xlsx file or a csv file, chosen by filename extension.
func ReadRoster(filename string, r io.Reader) (*Roster, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".csv", ".txt":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the header line uses it more than ','.
func sniffDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return ','
	}
	line := scanner.Text()
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func fromRows(rows [][]string) (*Roster, error) {
	headerAt := -1
	for i, row := range rows {
		if !blank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmpty
	}

	var columns [fieldCount]int
	for i := range columns {
		columns[i] = -1
	}
	for i, cell := range rows[headerAt] {
		if field, ok := headerAliases[NormalizeHeader(cell)]; ok && columns[field] < 0 {
			columns[field] = i
		}
	}
	if columns[FieldCode] < 0 || columns[FieldSurname] < 0 {
		return nil, ErrMissingColumns
	}

	roster := &Roster{}
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		rec := Record{
			Line:      i + 1,
			Code:      cell(row, columns[FieldCode]),
			Surname:   cell(row, columns[FieldSurname]),
			GivenName: cell(row, columns[FieldGivenName]),
			Email:     cell(row, columns[FieldEmail]),
		}
		if rec.Code == "" || rec.Surname == "" {
			roster.Skipped++
			continue
		}
		roster.Records = append(roster.Records, rec)
	}
	return roster, nil
}

// NormalizeHeader lowercases a header, strips accents and collapses separators to single spaces.
func NormalizeHeader(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if r == '_' {
			return ' '
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
