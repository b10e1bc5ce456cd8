// Package query materializes resolved tables into an in-memory sqlite
// database and executes SQL against them. The acquisition core hands tables
// in; this layer never fetches anything itself.
package query

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/schema"
)

type Engine struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewEngine(log *zap.Logger) (*Engine, error) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open query engine: %w", err)
	}
	return &Engine{db: db, log: log}, nil
}

func (e *Engine) Close() error { return e.db.Close() }

// LoadTable creates the table from its registry DDL and bulk-inserts rows in
// one transaction.
func (e *Engine) LoadTable(ctx context.Context, def schema.TableDef, t *model.Table) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+def.Name); err != nil {
		return fmt.Errorf("drop table %s: %w", def.Name, err)
	}
	if _, err := tx.ExecContext(ctx, def.CreateTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", def.Name, err)
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?,", len(def.Columns)), ",") + ")"
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		def.Name, strings.Join(columnNames(def), ", "), placeholders)

	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", def.Name, err)
	}
	defer stmt.Close()

	for _, row := range t.Rows {
		args := make([]any, len(def.Columns))
		copy(args, row)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", def.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	e.log.Debug("table loaded", zap.String("table", def.Name), zap.Int("rows", len(t.Rows)))
	return nil
}

// Result is a fully stringified query result ready for rendering.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Execute runs a read query and stringifies every value; NULL renders empty.
func (e *Engine) Execute(ctx context.Context, sql string) (*Result, error) {
	rows, err := e.db.QueryxContext(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = stringify(v)
		}
		res.Rows = append(res.Rows, out)
	}
	return res, rows.Err()
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func columnNames(def schema.TableDef) []string {
	names := make([]string, len(def.Columns))
	for i, c := range def.Columns {
		names[i] = c.Name
	}
	return names
}

// ReferencedTables scans a SQL string for registry table names so the CLI
// can resolve them before execution. Whole-word, case-insensitive.
func ReferencedTables(sql string) []string {
	var found []string
	for _, name := range schema.Names() {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if re.MatchString(sql) {
			found = append(found, name)
		}
	}
	return found
}
