package project

import (
	"testing"

	"github.com/dashforge/dashforge/pkg/dataset"
	"github.com/dashforge/dashforge/pkg/report"
)

func sampleProject() *Project {
	p := New("Quarterly")
	p.Datasets = append(p.Datasets, dataset.Table{
		Name:    "sales",
		Columns: []string{"region", "amount"},
		Rows: [][]string{
			{"east", "100"},
			{"west", "250"},
			{"east", "75"},
		},
	})
	p.Slicers = append(p.Slicers, Slicer{
		ID: "s1", Name: "East only", Column: "region", Values: []string{"east"},
	})
	p.Charts = append(p.Charts, Chart{
		ID: "c1", Name: "Revenue", Type: ChartTypeBar, Dataset: "sales",
		XField: "region", YField: "amount", Aggregation: AggregationSum,
		Slicers: []string{"s1"},
	})
	return p
}

func TestNewProjectDefaults(t *testing.T) {
	p := New("Test")
	if p.ID == "" {
		t.Error("new project has no id")
	}
	if p.Name != "Test" {
		t.Errorf("name = %q", p.Name)
	}
	if err := p.Report.Config.Validate(); err != nil {
		t.Errorf("default report config invalid: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("new project should validate: %v", err)
	}
}

func TestChartsByIDPreservesOrder(t *testing.T) {
	p := sampleProject()
	p.Charts = append(p.Charts, Chart{
		ID: "c2", Name: "Count", Type: ChartTypePie, Dataset: "sales",
		XField: "region", Aggregation: AggregationCount,
	})

	got := p.ChartsByID([]string{"c2", "missing", "c1"})
	if len(got) != 2 {
		t.Fatalf("resolved %d charts, want 2", len(got))
	}
	if got[0].ID != "c2" || got[1].ID != "c1" {
		t.Errorf("order not preserved: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestSlicedTable(t *testing.T) {
	p := sampleProject()
	c, _ := p.Chart("c1")

	tbl, err := p.SlicedTable(*c)
	if err != nil {
		t.Fatalf("SlicedTable failed: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("sliced rows = %d, want 2", len(tbl.Rows))
	}

	// Unknown slicer ids are skipped.
	c.Slicers = []string{"nope"}
	tbl, err = p.SlicedTable(*c)
	if err != nil {
		t.Fatalf("SlicedTable with unknown slicer failed: %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Errorf("rows = %d, want all 3", len(tbl.Rows))
	}

	// Missing dataset is an error.
	c.Dataset = "gone"
	if _, err := p.SlicedTable(*c); err == nil {
		t.Error("expected error for missing dataset")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Project)
		wantErr bool
	}{
		{"valid project", func(p *Project) {}, false},
		{"missing name", func(p *Project) { p.Name = "" }, true},
		{"bad chart type", func(p *Project) { p.Charts[0].Type = "scatter" }, true},
		{"bad aggregation", func(p *Project) { p.Charts[0].Aggregation = "median" }, true},
		{"unknown dataset ref", func(p *Project) { p.Charts[0].Dataset = "nope" }, true},
		{"bad report page size", func(p *Project) { p.Report.Config.PageSize = "legal" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProject()
			tt.mutate(p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesSelection(t *testing.T) {
	p := sampleProject()
	p.Report.Selection = []string{"c1", "c1", ""}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(p.Report.Selection) != 1 || p.Report.Selection[0] != "c1" {
		t.Errorf("selection not normalized: %v", p.Report.Selection)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	p := sampleProject()
	p.Report.Selection.Add("c1")
	p.Report.SetOptions("c1", report.ChartOptions{IncludeAnalysis: true})

	data, err := EncodeBundle(p)
	if err != nil {
		t.Fatalf("EncodeBundle failed: %v", err)
	}

	got, err := DecodeBundle(data)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}
	if got.ID != p.ID || got.Name != p.Name {
		t.Errorf("identity lost: %+v", got)
	}
	if len(got.Charts) != 1 || got.Charts[0].Name != "Revenue" {
		t.Errorf("charts lost: %+v", got.Charts)
	}
	if len(got.Datasets) != 1 || len(got.Datasets[0].Rows) != 3 {
		t.Errorf("datasets lost: %+v", got.Datasets)
	}
	if len(got.Report.Selection) != 1 {
		t.Errorf("selection lost: %v", got.Report.Selection)
	}
	opts := got.Report.OptionsFor("c1")
	if !opts.IncludeAnalysis || opts.IncludeInsights {
		t.Errorf("chart options lost: %+v", opts)
	}
}

func TestRemoveSlicerDetachesCharts(t *testing.T) {
	p := sampleProject()

	if p.RemoveSlicer("missing") {
		t.Error("removing an unknown slicer should report false")
	}
	if !p.RemoveSlicer("s1") {
		t.Fatal("RemoveSlicer(s1) reported not found")
	}
	if len(p.Slicers) != 0 {
		t.Errorf("slicers remaining: %v", p.Slicers)
	}
	if refs := p.Charts[0].Slicers; len(refs) != 0 {
		t.Errorf("chart still references removed slicer: %v", refs)
	}
}

func TestDecodeBundleNormalizesRaggedRows(t *testing.T) {
	bundle := []byte(`id: p1
name: Ragged
datasets:
  - name: sales
    columns: [region, amount]
    rows:
      - [east]
      - [west, "12", extra]
report:
  config:
    pageSize: a4
    confidentiality: internal
`)
	p, err := DecodeBundle(bundle)
	if err != nil {
		t.Fatalf("DecodeBundle failed: %v", err)
	}
	for i, row := range p.Datasets[0].Rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2: %v", i, len(row), row)
		}
	}
}

func TestDecodeBundleRejectsInvalid(t *testing.T) {
	if _, err := DecodeBundle([]byte("{invalid yaml")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := DecodeBundle([]byte("id: x\n")); err == nil {
		t.Error("expected validation error for missing name")
	}
}
