package model

import "strings"

type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeDouble  ColumnType = "double"
	TypeBoolean ColumnType = "boolean"
	TypeInteger ColumnType = "integer"
)

func (t ColumnType) String() string { return string(t) }

func (t ColumnType) Valid() bool {
	return t == TypeString || t == TypeDouble || t == TypeBoolean || t == TypeInteger
}

// SQLType maps a column type to its sqlite declaration.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeDouble:
		return "REAL"
	case TypeInteger:
		return "INTEGER"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

type Column struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// Table is one materialized dataset. Rows are row-major and positionally
// aligned with Columns; a value a source cannot populate is nil, never
// dropped.
type Table struct {
	Name    string   `json:"table"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NormalizeName lowercases and trims a user-supplied table name.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
