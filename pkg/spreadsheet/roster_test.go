package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "codigo", NormalizeHeader(" Código "))
	assert.Equal(t, "last name", NormalizeHeader("LAST_NAME"))
	assert.Equal(t, "given name", NormalizeHeader("Given   Name"))
}

func TestReadRosterCSV(t *testing.T) {
	input := "\xef\xbb\xbfCódigo,Apellidos,Nombres,Correo\n" +
		"A01,Pérez,Ana,ana@example.com\n" +
		",,,\n" +
		"B02,,Luis,\n" +
		"C03,Zapata,Eva,\n"

	roster, err := ReadRoster("alumnos.CSV", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, roster.Records, 2)
	assert.Equal(t, 1, roster.Skipped)
	assert.Equal(t, Record{Line: 2, Code: "A01", Surname: "Pérez", GivenName: "Ana", Email: "ana@example.com"}, roster.Records[0])
	assert.Equal(t, 5, roster.Records[1].Line)
}

func TestReadRosterCSVSemicolon(t *testing.T) {
	input := "code;surname;first name\nA01;Smith;John\n"
	roster, err := ReadRoster("roster.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, roster.Records, 1)
	assert.Equal(t, "Smith", roster.Records[0].Surname)
	assert.Equal(t, "John", roster.Records[0].GivenName)
	assert.Empty(t, roster.Records[0].Email)
}

func TestReadRosterXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Apellidos", "Nombres", "codigo"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Gómez", "María", "X9"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	roster, err := ReadRoster("import.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, roster.Records, 1)
	assert.Equal(t, "X9", roster.Records[0].Code)
	assert.Equal(t, "Gómez", roster.Records[0].Surname)
}

func TestReadRosterErrors(t *testing.T) {
	_, err := ReadRoster("notes.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadRoster("a.csv", strings.NewReader("nombre,correo\nAna,a@b.c\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ReadRoster("a.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}
