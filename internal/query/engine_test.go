package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/schema"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func loadBenchmarks(t *testing.T, e *Engine) {
	t.Helper()
	def, _ := schema.Lookup("benchmarks")
	table := &model.Table{Name: def.Name, Columns: def.Columns}
	for _, rec := range []map[string]any{
		{"id": "m1", "name": "Alpha", "slug": "alpha", "creator": "Acme", "intelligence": 62.5, "tps": 110.0},
		{"id": "m2", "name": "Beta", "slug": "beta", "creator": "Acme", "intelligence": 48.0},
		{"id": "m3", "name": "Gamma", "slug": "gamma", "creator": "Zeta", "intelligence": 71.25, "tps": 95.5},
	} {
		table.Rows = append(table.Rows, schema.Project(def, []map[string]any{rec}).Rows[0])
	}
	require.NoError(t, e.LoadTable(context.Background(), def, table))
}

func TestLoadAndExecute(t *testing.T) {
	e := newEngine(t)
	loadBenchmarks(t, e)

	res, err := e.Execute(context.Background(),
		"SELECT name, intelligence FROM benchmarks WHERE intelligence > 50 ORDER BY intelligence DESC")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "intelligence"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"Gamma", "71.25"}, res.Rows[0])
	assert.Equal(t, []string{"Alpha", "62.5"}, res.Rows[1])
}

func TestNullRendersEmpty(t *testing.T) {
	e := newEngine(t)
	loadBenchmarks(t, e)

	res, err := e.Execute(context.Background(),
		"SELECT name, tps FROM benchmarks WHERE id = 'm2'")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Beta", ""}, res.Rows[0])
}

func TestAggregates(t *testing.T) {
	e := newEngine(t)
	loadBenchmarks(t, e)

	res, err := e.Execute(context.Background(),
		"SELECT creator, COUNT(*) AS n FROM benchmarks GROUP BY creator ORDER BY n DESC")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"Acme", "2"}, res.Rows[0])
}

func TestBadSQLSurfacesError(t *testing.T) {
	e := newEngine(t)
	loadBenchmarks(t, e)

	_, err := e.Execute(context.Background(), "SELECT FROM nowhere")
	require.Error(t, err)
}

func TestReloadReplacesTable(t *testing.T) {
	e := newEngine(t)
	loadBenchmarks(t, e)

	// Loading again with fewer rows must not accumulate.
	def, _ := schema.Lookup("benchmarks")
	table := schema.Project(def, []map[string]any{
		{"id": "m9", "name": "Solo", "slug": "solo", "creator": "Acme"},
	})
	require.NoError(t, e.LoadTable(context.Background(), def, table))

	res, err := e.Execute(context.Background(), "SELECT COUNT(*) FROM benchmarks")
	require.NoError(t, err)
	assert.Equal(t, "1", res.Rows[0][0])
}

func TestReferencedTables(t *testing.T) {
	got := ReferencedTables("SELECT b.name FROM benchmarks b JOIN models m ON m.model_name = b.name")
	assert.ElementsMatch(t, []string{"benchmarks", "models"}, got)

	// Substrings of table names do not count.
	assert.Empty(t, ReferencedTables("SELECT * FROM benchmarks_archive"))

	// Case-insensitive.
	assert.Equal(t, []string{"text_to_image"}, ReferencedTables("select * from TEXT_TO_IMAGE"))
}
