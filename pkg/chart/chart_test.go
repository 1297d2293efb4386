package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/dashforge/dashforge/pkg/dataset"
	"github.com/dashforge/dashforge/pkg/project"
)

func salesTable() dataset.Table {
	return dataset.Table{
		Name:    "sales",
		Columns: []string{"region", "amount"},
		Rows: [][]string{
			{"east", "100"},
			{"west", "250"},
			{"east", "50"},
			{"west", "150"},
			{"north", "not-a-number"},
		},
	}
}

func chartDef(agg project.Aggregation) project.Chart {
	return project.Chart{
		ID: "c1", Name: "Revenue", Type: project.ChartTypeBar,
		Dataset: "sales", XField: "region", YField: "amount", Aggregation: agg,
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		agg  project.Aggregation
		want map[string]float64
	}{
		{"sum", project.AggregationSum, map[string]float64{"east": 150, "west": 400}},
		{"avg", project.AggregationAvg, map[string]float64{"east": 75, "west": 200}},
		{"min", project.AggregationMin, map[string]float64{"east": 50, "west": 150}},
		{"max", project.AggregationMax, map[string]float64{"east": 100, "west": 250}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Aggregate(chartDef(tt.agg), salesTable())
			if err != nil {
				t.Fatalf("Aggregate failed: %v", err)
			}
			// The non-numeric north row contributes nothing numeric.
			if len(points) != len(tt.want) {
				t.Fatalf("points = %v, want labels %v", points, tt.want)
			}
			for _, p := range points {
				want, ok := tt.want[p.Label]
				if !ok {
					t.Errorf("unexpected label %q", p.Label)
					continue
				}
				if math.Abs(p.Value-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", p.Label, p.Value, want)
				}
			}
		})
	}
}

func TestAggregateCount(t *testing.T) {
	def := chartDef(project.AggregationCount)
	def.YField = ""

	points, err := Aggregate(def, salesTable())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	// Count needs no numeric column, so north is included.
	want := []Point{{"east", 2}, {"west", 2}, {"north", 1}}
	if len(points) != len(want) {
		t.Fatalf("points = %v, want %v", points, want)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestAggregateErrors(t *testing.T) {
	tbl := salesTable()

	def := chartDef(project.AggregationSum)
	def.XField = "missing"
	if _, err := Aggregate(def, tbl); err == nil {
		t.Error("expected error for unknown x field")
	}

	def = chartDef(project.AggregationSum)
	def.YField = "missing"
	if _, err := Aggregate(def, tbl); err == nil {
		t.Error("expected error for unknown y field")
	}

	empty := dataset.Table{Name: "empty", Columns: []string{"region", "amount"}}
	if _, err := Aggregate(chartDef(project.AggregationSum), empty); !errors.Is(err, ErrNoData) {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderProducesPNG(t *testing.T) {
	types := []project.ChartType{
		project.ChartTypeBar,
		project.ChartTypeLine,
		project.ChartTypeArea,
		project.ChartTypePie,
		project.ChartTypeDonut,
	}
	for _, ct := range types {
		t.Run(string(ct), func(t *testing.T) {
			def := chartDef(project.AggregationSum)
			def.Type = ct
			png, err := Render(def, salesTable(), "#2563EB", 400, 300)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !bytes.HasPrefix(png, pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestAggregateRaggedBundleRows(t *testing.T) {
	bundle := []byte(`id: p1
name: Ragged
datasets:
  - name: sales
    columns: [region, amount]
    rows:
      - [east]
charts:
  - id: c1
    name: Revenue
    type: bar
    dataset: sales
    xField: region
    yField: amount
    aggregation: sum
report:
  config:
    pageSize: a4
    confidentiality: internal
`)
	p, err := project.DecodeBundle(bundle)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}
	// The padded amount cell is empty, so the only bucket has no numeric
	// contribution and the aggregation degrades to ErrNoData.
	if _, err := Aggregate(p.Charts[0], p.Datasets[0]); !errors.Is(err, ErrNoData) {
		t.Errorf("Aggregate error = %v, want ErrNoData", err)
	}
}

func TestRenderSinglePointLine(t *testing.T) {
	tbl := dataset.Table{
		Name:    "one",
		Columns: []string{"k", "v"},
		Rows:    [][]string{{"only", "5"}},
	}
	def := chartDef(project.AggregationSum)
	def.Type = project.ChartTypeLine
	def.Dataset = "one"
	def.XField, def.YField = "k", "v"

	if _, err := Render(def, tbl, "", 400, 300); err != nil {
		t.Errorf("single-point line render failed: %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	c := parseHexColor("#FF0080")
	if c.R != 0xFF || c.G != 0 || c.B != 0x80 {
		t.Errorf("parsed %+v", c)
	}
	// Malformed input falls back rather than erroring.
	fallback := parseHexColor("")
	if fallback != parseHexColor("nope") {
		t.Error("fallback colors differ")
	}
}
