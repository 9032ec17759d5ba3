// Package export turns the applicant identity and ranked center selection into
// a spreadsheet artifact.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jask/practicum/internal/center"
)

const (
	DefaultTitle = "SOLICITUD DE CENTROS DE PRÁCTICAS"
	SheetName    = "Selección"
	MIMEType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLabel  = "Fecha de exportación:"
	dateLayout = "02/01/2006"
)

var runNamespace = uuid.MustParse("3f6f2a8e-3c1d-4e0b-9d55-8a1c2b7e4f10")

// Identity is the person submitting the selection.
type Identity struct {
	Name       string
	NationalID string
}

func (id Identity) value(f Field) string {
	switch f {
	case FieldName:
		return id.Name
	case FieldNationalID:
		return id.NationalID
	}
	return ""
}

// Validate checks the identity fields the schema requires and that the
// selection is non-empty. Failures come back as a *ValidationError.
func Validate(schemaName string, id Identity, items []center.Center) error {
	schema, err := Lookup(schemaName)
	if err != nil {
		return err
	}
	verr := &ValidationError{EmptySelection: len(items) == 0}
	for _, f := range schema.Requires {
		if strings.TrimSpace(id.value(f)) == "" {
			verr.Missing = append(verr.Missing, f)
		}
	}
	if len(verr.Missing) > 0 || verr.EmptySelection {
		return verr
	}
	return nil
}

// Artifact is a fully built export ready to be encoded.
type Artifact struct {
	RunID     string
	Schema    string
	Title     string
	Sheet     string
	Date      string
	Header    []string
	Rows      [][]any
	Widths    []float64
	Filename  string
	MIMEType  string
	CreatedAt time.Time
}

// Grid returns every sheet row in order: title, date, blank, header, data.
func (a *Artifact) Grid() [][]any {
	grid := make([][]any, 0, len(a.Rows)+4)
	grid = append(grid, []any{a.Title}, []any{dateLabel, a.Date}, []any{})
	header := make([]any, len(a.Header))
	for i, h := range a.Header {
		header[i] = h
	}
	grid = append(grid, header)
	return append(grid, a.Rows...)
}

// headerRow is the 1-based sheet row holding column headers.
const headerRow = 4

// Serializer builds artifacts. The zero value uses DefaultTitle.
type Serializer struct {
	Title string
}

// Serialize builds the artifact with the package defaults.
func Serialize(id Identity, items []center.Center, schemaName string, now time.Time) (*Artifact, error) {
	return Serializer{}.Serialize(id, items, schemaName, now)
}

// Serialize lays out one data row per item in selection order with a 1-based
// rank. The result depends only on its inputs.
func (s Serializer) Serialize(id Identity, items []center.Center, schemaName string, now time.Time) (*Artifact, error) {
	schema, err := Lookup(schemaName)
	if err != nil {
		return nil, &SerializationError{Op: "serialize", Err: err}
	}
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	a := &Artifact{
		Schema:    schema.Name,
		Title:     title,
		Sheet:     SheetName,
		Date:      now.Format(dateLayout),
		Filename:  schema.Filename(id.Name, now),
		MIMEType:  MIMEType,
		CreatedAt: now,
	}
	for _, col := range schema.Columns {
		a.Header = append(a.Header, col.Header)
		a.Widths = append(a.Widths, col.Width)
	}
	for i, c := range items {
		row := make([]any, len(schema.Columns))
		for j, col := range schema.Columns {
			row[j] = col.Value(i+1, id, c)
		}
		a.Rows = append(a.Rows, row)
	}
	a.RunID = uuid.NewSHA1(runNamespace, []byte(a.Filename+"|"+now.UTC().Format(time.RFC3339Nano))).String()
	return a, nil
}

// Encode renders the workbook in memory.
func (a *Artifact) Encode() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), a.Sheet); err != nil {
		return nil, &SerializationError{Op: "sheet", Err: err}
	}
	for i, row := range a.Grid() {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, &SerializationError{Op: "cell", Err: err}
		}
		if err := f.SetSheetRow(a.Sheet, cell, &row); err != nil {
			return nil, &SerializationError{Op: "row", Err: err}
		}
	}
	for i, w := range a.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, &SerializationError{Op: "width", Err: err}
		}
		if err := f.SetColWidth(a.Sheet, col, col, w); err != nil {
			return nil, &SerializationError{Op: "width", Err: err}
		}
	}
	if err := a.styleHeaders(f); err != nil {
		return nil, &SerializationError{Op: "style", Err: err}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &SerializationError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func (a *Artifact) styleHeaders(f *excelize.File) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(a.Sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if len(a.Header) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(a.Header), headerRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(a.Sheet, fmt.Sprintf("A%d", headerRow), last, bold)
}
