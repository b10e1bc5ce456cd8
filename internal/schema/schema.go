// Package schema is the single source of truth for table shapes. Every data
// source must populate these columns exactly; a value it cannot provide is
// emitted as NULL, never omitted.
package schema

import (
	"fmt"
	"strings"

	"github.com/modelscout/modelscout/internal/model"
)

// TableDef binds a logical table name to its column set and cache file.
type TableDef struct {
	Name    string
	File    string
	Columns []model.Column
}

// CreateTableSQL renders the sqlite DDL for this table.
func (d TableDef) CreateTableSQL() string {
	cols := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		null := ""
		if !c.Nullable {
			null = " NOT NULL"
		}
		cols[i] = fmt.Sprintf("%s %s%s", c.Name, c.Type.SQLType(), null)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", d.Name, strings.Join(cols, ",\n    "))
}

func col(name string, t model.ColumnType, nullable bool) model.Column {
	return model.Column{Name: name, Type: t, Nullable: nullable}
}

// Benchmarks holds Artificial-Analysis-style benchmark scores. Capability
// data lives in the separate models table; the two are correlated by the
// consumer, not here.
var Benchmarks = TableDef{
	Name: "benchmarks",
	File: "benchmarks.dat",
	Columns: []model.Column{
		col("id", model.TypeString, false),
		col("name", model.TypeString, false),
		col("slug", model.TypeString, false),
		col("creator", model.TypeString, false),
		col("creator_slug", model.TypeString, true),
		col("release_date", model.TypeString, true),
		col("intelligence", model.TypeDouble, true),
		col("coding", model.TypeDouble, true),
		col("math", model.TypeDouble, true),
		col("mmlu_pro", model.TypeDouble, true),
		col("gpqa", model.TypeDouble, true),
		col("hle", model.TypeDouble, true),
		col("livecodebench", model.TypeDouble, true),
		col("scicode", model.TypeDouble, true),
		col("math_500", model.TypeDouble, true),
		col("aime", model.TypeDouble, true),
		col("input_price", model.TypeDouble, true),
		col("output_price", model.TypeDouble, true),
		col("price", model.TypeDouble, true),
		col("tps", model.TypeDouble, true),
		col("latency", model.TypeDouble, true),
	},
}

// Models holds per-provider model capabilities from the capability source.
var Models = TableDef{
	Name: "models",
	File: "models.dat",
	Columns: []model.Column{
		col("provider_id", model.TypeString, false),
		col("provider_name", model.TypeString, false),
		col("provider_env", model.TypeString, true),
		col("provider_api", model.TypeString, true),
		col("provider_doc", model.TypeString, true),
		col("model_id", model.TypeString, false),
		col("model_name", model.TypeString, false),
		col("family", model.TypeString, true),
		col("attachment", model.TypeBoolean, true),
		col("reasoning", model.TypeBoolean, true),
		col("tool_call", model.TypeBoolean, true),
		col("structured_output", model.TypeBoolean, true),
		col("temperature", model.TypeBoolean, true),
		col("knowledge", model.TypeString, true),
		col("release_date", model.TypeString, true),
		col("last_updated", model.TypeString, true),
		col("open_weights", model.TypeBoolean, true),
		col("context_window", model.TypeInteger, true),
		col("max_input_tokens", model.TypeInteger, true),
		col("max_output_tokens", model.TypeInteger, true),
		col("input_price", model.TypeDouble, true),
		col("output_price", model.TypeDouble, true),
	},
}

func mediaColumns() []model.Column {
	return []model.Column{
		col("id", model.TypeString, false),
		col("name", model.TypeString, false),
		col("slug", model.TypeString, false),
		col("creator", model.TypeString, false),
		col("elo", model.TypeDouble, true),
		col("rank", model.TypeInteger, true),
		col("release_date", model.TypeString, true),
	}
}

var (
	TextToImage  = TableDef{Name: "text_to_image", File: "text_to_image.dat", Columns: mediaColumns()}
	ImageEditing = TableDef{Name: "image_editing", File: "image_editing.dat", Columns: mediaColumns()}
	TextToSpeech = TableDef{Name: "text_to_speech", File: "text_to_speech.dat", Columns: mediaColumns()}
	TextToVideo  = TableDef{Name: "text_to_video", File: "text_to_video.dat", Columns: mediaColumns()}
	ImageToVideo = TableDef{Name: "image_to_video", File: "image_to_video.dat", Columns: mediaColumns()}
)

// All lists every registered table in display order.
func All() []TableDef {
	return []TableDef{
		Benchmarks,
		Models,
		TextToImage,
		ImageEditing,
		TextToSpeech,
		TextToVideo,
		ImageToVideo,
	}
}

// Lookup finds a table definition by (case-insensitive) name.
func Lookup(name string) (TableDef, bool) {
	n := model.NormalizeName(name)
	for _, d := range All() {
		if d.Name == n {
			return d, true
		}
	}
	return TableDef{}, false
}

// Names returns every registered table name.
func Names() []string {
	defs := All()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
