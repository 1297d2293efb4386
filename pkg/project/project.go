// Package project defines the persisted dashboard project model: imported
// datasets, chart definitions, slicers, and the report-building state. It
// also provides the storage abstraction projects are saved through.
package project

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dashforge/dashforge/pkg/dataset"
	"github.com/dashforge/dashforge/pkg/report"
)

// ChartType tags how a chart is rendered.
type ChartType string

const (
	ChartTypeBar   ChartType = "bar"
	ChartTypeLine  ChartType = "line"
	ChartTypePie   ChartType = "pie"
	ChartTypeDonut ChartType = "donut"
	ChartTypeArea  ChartType = "area"
)

// Aggregation selects how row values are combined per category.
type Aggregation string

const (
	AggregationCount Aggregation = "count"
	AggregationSum   Aggregation = "sum"
	AggregationAvg   Aggregation = "avg"
	AggregationMin   Aggregation = "min"
	AggregationMax   Aggregation = "max"
)

// Slicer is a named filter rule: a column plus the values to keep. It can be
// attached to any number of charts.
type Slicer struct {
	ID     string   `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Column string   `yaml:"column" json:"column"`
	Values []string `yaml:"values" json:"values"`
}

// Chart is a chart definition over one of the project's datasets. Analysis
// holds raw AI-generated commentary; the report layer splits it into
// analysis/insights blocks at render time.
type Chart struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Type        ChartType   `yaml:"type" json:"type"`
	Dataset     string      `yaml:"dataset" json:"dataset"`
	XField      string      `yaml:"xField" json:"xField"`
	YField      string      `yaml:"yField,omitempty" json:"yField,omitempty"`
	Aggregation Aggregation `yaml:"aggregation" json:"aggregation"`
	Slicers     []string    `yaml:"slicers,omitempty" json:"slicers,omitempty"`
	Analysis    string      `yaml:"analysis,omitempty" json:"analysis,omitempty"`
}

// Project is the unit of storage and sync: everything a dashboard needs.
type Project struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Datasets    []dataset.Table `yaml:"datasets,omitempty" json:"datasets,omitempty"`
	Charts      []Chart         `yaml:"charts,omitempty" json:"charts,omitempty"`
	Slicers     []Slicer        `yaml:"slicers,omitempty" json:"slicers,omitempty"`
	Report      report.State    `yaml:"report" json:"report"`
	CreatedAt   time.Time       `yaml:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `yaml:"updatedAt" json:"updatedAt"`
}

// NewID returns a fresh ULID string.
func NewID() string {
	return ulid.Make().String()
}

// New creates an empty project with defaulted report state.
func New(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        NewID(),
		Name:      name,
		Report:    report.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Chart looks up a chart definition by ID.
func (p *Project) Chart(id string) (*Chart, bool) {
	for i := range p.Charts {
		if p.Charts[i].ID == id {
			return &p.Charts[i], true
		}
	}
	return nil, false
}

// Dataset looks up an imported dataset by name.
func (p *Project) Dataset(name string) (*dataset.Table, bool) {
	for i := range p.Datasets {
		if p.Datasets[i].Name == name {
			return &p.Datasets[i], true
		}
	}
	return nil, false
}

// Slicer looks up a slicer definition by ID.
func (p *Project) Slicer(id string) (*Slicer, bool) {
	for i := range p.Slicers {
		if p.Slicers[i].ID == id {
			return &p.Slicers[i], true
		}
	}
	return nil, false
}

// ChartsByID resolves ids to chart definitions, preserving order and
// skipping unknown ids. The report selection uses this to project its
// ordered id list onto the chart set.
func (p *Project) ChartsByID(ids []string) []Chart {
	out := make([]Chart, 0, len(ids))
	for _, id := range ids {
		if c, ok := p.Chart(id); ok {
			out = append(out, *c)
		}
	}
	return out
}

// SlicedTable returns the chart's dataset with its slicers applied, in
// declaration order. Unknown slicer ids are skipped; a missing dataset is an
// error.
func (p *Project) SlicedTable(c Chart) (dataset.Table, error) {
	tbl, ok := p.Dataset(c.Dataset)
	if !ok {
		return dataset.Table{}, fmt.Errorf("dataset %q not found in project %s", c.Dataset, p.ID)
	}
	out := *tbl
	for _, sid := range c.Slicers {
		sl, ok := p.Slicer(sid)
		if !ok {
			continue
		}
		var err error
		out, err = dataset.ApplySlicer(out, sl.Column, sl.Values)
		if err != nil {
			return dataset.Table{}, fmt.Errorf("slicer %q: %w", sl.Name, err)
		}
	}
	return out, nil
}

// RemoveSlicer deletes the slicer and detaches it from every chart that
// references it. It reports whether a slicer with the id existed.
func (p *Project) RemoveSlicer(id string) bool {
	kept := p.Slicers[:0]
	found := false
	for _, sl := range p.Slicers {
		if sl.ID == id {
			found = true
			continue
		}
		kept = append(kept, sl)
	}
	if !found {
		return false
	}
	p.Slicers = kept
	for i := range p.Charts {
		refs := p.Charts[i].Slicers[:0]
		for _, ref := range p.Charts[i].Slicers {
			if ref != id {
				refs = append(refs, ref)
			}
		}
		p.Charts[i].Slicers = refs
	}
	return true
}

// Validate checks referential integrity and enumerated fields. The report
// selection is normalized rather than rejected: unknown chart ids degrade
// gracefully at render time.
func (p *Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project has no id")
	}
	if p.Name == "" {
		return fmt.Errorf("project %s has no name", p.ID)
	}
	for _, c := range p.Charts {
		switch c.Type {
		case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeDonut, ChartTypeArea:
		default:
			return fmt.Errorf("chart %q: invalid type %q", c.Name, c.Type)
		}
		switch c.Aggregation {
		case AggregationCount, AggregationSum, AggregationAvg, AggregationMin, AggregationMax:
		default:
			return fmt.Errorf("chart %q: invalid aggregation %q", c.Name, c.Aggregation)
		}
		if c.Dataset != "" {
			if _, ok := p.Dataset(c.Dataset); !ok {
				return fmt.Errorf("chart %q references unknown dataset %q", c.Name, c.Dataset)
			}
		}
	}
	if err := p.Report.Config.Validate(); err != nil {
		return fmt.Errorf("report config: %w", err)
	}
	for i := range p.Datasets {
		p.Datasets[i].Normalize()
	}
	p.Report.Selection.Normalize()
	return nil
}

// Touch bumps the modification timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
