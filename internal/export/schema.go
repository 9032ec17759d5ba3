package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jask/practicum/internal/center"
)

// Field is an identity field a schema can require.
type Field string

const (
	FieldName       Field = "name"
	FieldNationalID Field = "national_id"
)

func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Nombre"
	case FieldNationalID:
		return "DNI"
	}
	return string(f)
}

// Column is one output column of an export schema.
type Column struct {
	Header string
	Width  float64
	Value  func(rank int, id Identity, c center.Center) any
}

// Schema fixes the columns, required identity fields and filename pattern of
// an export.
type Schema struct {
	Name     string
	Columns  []Column
	Requires []Field
	filename func(safe string, now time.Time) string
}

// Filename derives the artifact name for an applicant name at now.
func (s Schema) Filename(applicant string, now time.Time) string {
	return s.filename(SanitizeName(applicant), now)
}

const (
	SchemaBasic    = "basic"
	SchemaStandard = "standard"
	SchemaFull     = "full"

	DefaultSchema = SchemaStandard
)

var (
	colRank       = Column{Header: "Orden", Width: 8, Value: func(rank int, _ Identity, _ center.Center) any { return rank }}
	colApplicant  = Column{Header: "Nombre del Profesor", Width: 30, Value: func(_ int, id Identity, _ center.Center) any { return id.Name }}
	colNationalID = Column{Header: "DNI", Width: 15, Value: func(_ int, id Identity, _ center.Center) any { return id.NationalID }}
	colCode       = Column{Header: "Código Centro", Width: 15, Value: func(_ int, _ Identity, c center.Center) any { return c.Code }}
	colName       = Column{Header: "Nombre del Centro", Width: 40, Value: func(_ int, _ Identity, c center.Center) any { return c.Name }}
	colZone       = Column{Header: "Zona", Width: 20, Value: func(_ int, _ Identity, c center.Center) any { return c.Zone }}
	colStatus     = Column{Header: "Estado", Width: 15, Value: func(_ int, _ Identity, c center.Center) any { return c.Status }}
	colCapacity   = Column{Header: "Plazas", Width: 10, Value: func(_ int, _ Identity, c center.Center) any { return c.Capacity }}
)

var schemas = map[string]Schema{
	SchemaBasic: {
		Name:     SchemaBasic,
		Columns:  []Column{colRank, colCode, colName, colZone},
		Requires: []Field{FieldName},
		filename: func(safe string, now time.Time) string {
			return fmt.Sprintf("%s_%s.xlsx", safe, now.Format("2006-01-02"))
		},
	},
	SchemaStandard: {
		Name:     SchemaStandard,
		Columns:  []Column{colRank, colApplicant, colNationalID, colCode, colName, colZone},
		Requires: []Field{FieldName, FieldNationalID},
		filename: func(safe string, _ time.Time) string {
			return fmt.Sprintf("practicas_%s.xlsx", safe)
		},
	},
	SchemaFull: {
		Name:     SchemaFull,
		Columns:  []Column{colRank, colApplicant, colNationalID, colCode, colName, colZone, colStatus, colCapacity},
		Requires: []Field{FieldName, FieldNationalID},
		filename: func(safe string, now time.Time) string {
			return fmt.Sprintf("practicas_%s_%s.xlsx", safe, now.Format("2006-01-02"))
		},
	},
}

// Lookup returns the named schema. Names are matched case-insensitively.
func Lookup(name string) (Schema, error) {
	s, ok := schemas[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnsupportedSchema, name)
	}
	return s, nil
}

// SchemaNames lists the known schemas, sorted.
func SchemaNames() []string {
	out := make([]string, 0, len(schemas))
	for name := range schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SanitizeName maps every rune outside ASCII letters and digits to a single
// underscore and lowercases the result.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
