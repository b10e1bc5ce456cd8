// Package view shapes resolved tables into the ranked browse presentations
// the llms and media commands print. It only selects, filters, and formats;
// acquisition stays in the resolver and rendering in the output package.
package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/query"
)

// Canonical sort keys for the LLM view.
const (
	SortIntelligence = "intelligence"
	SortPrice        = "price"
	SortSpeed        = "speed"
)

// NormalizeSort maps user-facing sort aliases onto canonical keys. Empty
// input means source order; an unknown field reports false.
func NormalizeSort(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", true
	case "intelligence", "intel":
		return SortIntelligence, true
	case "price", "input":
		return SortPrice, true
	case "speed", "tps":
		return SortSpeed, true
	default:
		return "", false
	}
}

// LlmFilter narrows and orders the LLM browse view. Model and Creator match
// case-insensitively against display names and exactly-cased against slugs.
type LlmFilter struct {
	Model   string
	Creator string
	Sort    string
}

// Llms builds the LLM leaderboard view over the benchmarks table.
func Llms(t *model.Table, f LlmFilter) *query.Result {
	name := colIdx(t, "name")
	slug := colIdx(t, "slug")
	creator := colIdx(t, "creator")
	creatorSlug := colIdx(t, "creator_slug")
	intelligence := colIdx(t, "intelligence")
	inputPrice := colIdx(t, "input_price")
	outputPrice := colIdx(t, "output_price")
	tps := colIdx(t, "tps")

	rows := make([][]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if f.Model != "" && !matches(f.Model, str(row, name), str(row, slug)) {
			continue
		}
		if f.Creator != "" && !matches(f.Creator, str(row, creator), str(row, creatorSlug)) {
			continue
		}
		rows = append(rows, row)
	}

	switch f.Sort {
	case SortIntelligence:
		sortDesc(rows, intelligence)
	case SortPrice:
		sortAsc(rows, inputPrice)
	case SortSpeed:
		sortDesc(rows, tps)
	}

	res := &query.Result{
		Columns: []string{"Name", "Creator", "Intelligence", "Input $/M", "Output $/M", "TPS"},
	}
	for _, row := range rows {
		res.Rows = append(res.Rows, []string{
			str(row, name),
			str(row, creator),
			fmtFloat(row, intelligence, 1),
			fmtFloat(row, inputPrice, 2),
			fmtFloat(row, outputPrice, 2),
			fmtFloat(row, tps, 1),
		})
	}
	return res
}

// Media builds the leaderboard view shared by the five media tables. Source
// order is preserved; the upstream ranking is already meaningful.
func Media(t *model.Table) *query.Result {
	rank := colIdx(t, "rank")
	name := colIdx(t, "name")
	creator := colIdx(t, "creator")
	elo := colIdx(t, "elo")

	res := &query.Result{Columns: []string{"Rank", "Name", "Creator", "ELO"}}
	for _, row := range t.Rows {
		res.Rows = append(res.Rows, []string{
			fmtInt(row, rank),
			str(row, name),
			str(row, creator),
			fmtFloat(row, elo, 0),
		})
	}
	return res
}

func colIdx(t *model.Table, name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func cell(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func str(row []any, i int) string {
	if s, ok := cell(row, i).(string); ok {
		return s
	}
	return ""
}

func num(row []any, i int) (float64, bool) {
	switch v := cell(row, i).(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// fmtFloat renders a numeric cell with fixed decimals; missing values show
// as a dash.
func fmtFloat(row []any, i, decimals int) string {
	v, ok := num(row, i)
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func fmtInt(row []any, i int) string {
	v, ok := num(row, i)
	if !ok {
		return "-"
	}
	return strconv.FormatInt(int64(v), 10)
}

func matches(filter, display, slug string) bool {
	return strings.Contains(strings.ToLower(display), strings.ToLower(filter)) ||
		strings.Contains(slug, filter)
}

// sortDesc orders rows by a numeric column, highest first, missing values
// last.
func sortDesc(rows [][]any, i int) {
	sort.SliceStable(rows, func(a, b int) bool {
		av, aok := num(rows[a], i)
		bv, bok := num(rows[b], i)
		if aok != bok {
			return aok
		}
		return av > bv
	})
}

func sortAsc(rows [][]any, i int) {
	sort.SliceStable(rows, func(a, b int) bool {
		av, aok := num(rows[a], i)
		bv, bok := num(rows[b], i)
		if aok != bok {
			return aok
		}
		return av < bv
	})
}
