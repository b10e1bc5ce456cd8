package schema

import "github.com/modelscout/modelscout/internal/model"

// Project builds a table from loosely-shaped upstream records. Every
// registered column is emitted in order; a record missing a column yields
// nil for it. Extra upstream fields are dropped.
func Project(def TableDef, records []map[string]any) *model.Table {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(def.Columns))
		for i, c := range def.Columns {
			if v, ok := rec[c.Name]; ok {
				row[i] = coerce(c.Type, v)
			}
		}
		rows = append(rows, row)
	}
	return &model.Table{Name: def.Name, Columns: def.Columns, Rows: rows}
}

// Conform realigns an already-tabular payload to the registry schema by
// column name. Sources may order or subset columns differently; the declared
// schema always wins.
func Conform(def TableDef, t *model.Table) *model.Table {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c.Name] = i
	}

	rows := make([][]any, 0, len(t.Rows))
	for _, src := range t.Rows {
		row := make([]any, len(def.Columns))
		for i, c := range def.Columns {
			if j, ok := idx[c.Name]; ok && j < len(src) {
				row[i] = coerce(c.Type, src[j])
			}
		}
		rows = append(rows, row)
	}
	return &model.Table{Name: def.Name, Columns: def.Columns, Rows: rows}
}

// coerce nudges JSON-decoded values toward the declared column type.
// Anything unconvertible passes through; sqlite is forgiving and the query
// layer stringifies for display.
func coerce(t model.ColumnType, v any) any {
	if v == nil {
		return nil
	}
	switch t {
	case model.TypeInteger:
		if f, ok := v.(float64); ok {
			return int64(f)
		}
	case model.TypeDouble:
		switch n := v.(type) {
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return v
}
