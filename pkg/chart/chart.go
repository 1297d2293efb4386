// Package chart aggregates dataset rows into series and rasterizes them to
// PNG images for report pages. Slicers are applied by the caller before
// rendering; this package only sees the final table.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dashforge/dashforge/pkg/dataset"
	"github.com/dashforge/dashforge/pkg/project"
)

// ErrNoData is returned when aggregation produces no points. Callers degrade
// to placeholder content instead of failing the report.
var ErrNoData = errors.New("chart has no data")

// Point is one aggregated category.
type Point struct {
	Label string
	Value float64
}

// Aggregate groups the table's rows by the chart's X field and combines the
// Y field values per the chart's aggregation. Categories keep first-appearance
// order. Non-numeric Y cells are skipped for numeric aggregations.
func Aggregate(def project.Chart, tbl dataset.Table) ([]Point, error) {
	xIdx, ok := tbl.ColumnIndex(def.XField)
	if !ok {
		return nil, fmt.Errorf("x field %q not found in dataset %q", def.XField, tbl.Name)
	}

	yIdx := -1
	if def.Aggregation != project.AggregationCount {
		yIdx, ok = tbl.ColumnIndex(def.YField)
		if !ok {
			return nil, fmt.Errorf("y field %q not found in dataset %q", def.YField, tbl.Name)
		}
	}

	type bucket struct {
		count int
		sum   float64
		min   float64
		max   float64
	}
	var order []string
	buckets := make(map[string]*bucket)

	for _, row := range tbl.Rows {
		label := row[xIdx]
		b, seen := buckets[label]
		if !seen {
			b = &bucket{}
			buckets[label] = b
			order = append(order, label)
		}

		if yIdx == -1 {
			b.count++
			continue
		}
		v, err := strconv.ParseFloat(row[yIdx], 64)
		if err != nil {
			continue
		}
		if b.count == 0 {
			b.min, b.max = v, v
		} else {
			if v < b.min {
				b.min = v
			}
			if v > b.max {
				b.max = v
			}
		}
		b.count++
		b.sum += v
	}

	points := make([]Point, 0, len(order))
	for _, label := range order {
		b := buckets[label]
		if b.count == 0 {
			continue
		}
		var v float64
		switch def.Aggregation {
		case project.AggregationCount:
			v = float64(b.count)
		case project.AggregationSum:
			v = b.sum
		case project.AggregationAvg:
			v = b.sum / float64(b.count)
		case project.AggregationMin:
			v = b.min
		case project.AggregationMax:
			v = b.max
		default:
			return nil, fmt.Errorf("unsupported aggregation: %s", def.Aggregation)
		}
		points = append(points, Point{Label: label, Value: v})
	}

	if len(points) == 0 {
		return nil, ErrNoData
	}
	return points, nil
}

// Render aggregates the table and rasterizes the chart to a PNG. The accent
// color (hex #RRGGBB) drives series styling; width and height are pixels.
func Render(def project.Chart, tbl dataset.Table, accent string, width, height int) ([]byte, error) {
	points, err := Aggregate(def, tbl)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 360
	}

	accentColor := parseHexColor(accent)

	var buf bytes.Buffer
	switch def.Type {
	case project.ChartTypeBar:
		err = renderBars(points, accentColor, width, height, &buf)
	case project.ChartTypePie:
		err = chart.PieChart{Width: width, Height: height, Values: chartValues(points)}.Render(chart.PNG, &buf)
	case project.ChartTypeDonut:
		err = chart.DonutChart{Width: width, Height: height, Values: chartValues(points)}.Render(chart.PNG, &buf)
	case project.ChartTypeLine, project.ChartTypeArea:
		err = renderSeries(def.Type, points, accentColor, width, height, &buf)
	default:
		return nil, fmt.Errorf("unsupported chart type: %s", def.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart %q: %w", def.Type, def.Name, err)
	}
	return buf.Bytes(), nil
}

func renderBars(points []Point, accent drawing.Color, width, height int, buf *bytes.Buffer) error {
	bars := make([]chart.Value, len(points))
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: accent, StrokeColor: accent},
		}
	}
	return chart.BarChart{
		Width:    width,
		Height:   height,
		BarWidth: 40,
		Bars:     bars,
	}.Render(chart.PNG, buf)
}

func renderSeries(kind project.ChartType, points []Point, accent drawing.Color, width, height int, buf *bytes.Buffer) error {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Value
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
	}
	// A renderable series needs two points; extend a singleton flat. The
	// tick list must span the same range or the axis has no extent.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
		ticks = append(ticks, chart.Tick{Value: xs[1], Label: ""})
	}

	style := chart.Style{StrokeColor: accent, StrokeWidth: 2.0}
	if kind == project.ChartTypeArea {
		style.FillColor = accent.WithAlpha(80)
	}

	return chart.Chart{
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style},
		},
	}.Render(chart.PNG, buf)
}

func chartValues(points []Point) []chart.Value {
	out := make([]chart.Value, len(points))
	for i, p := range points {
		out[i] = chart.Value{Label: p.Label, Value: p.Value}
	}
	return out
}

// parseHexColor converts "#RRGGBB" to a drawing color, falling back to the
// default accent blue on malformed input.
func parseHexColor(s string) drawing.Color {
	fallback := drawing.Color{R: 0x25, G: 0x63, B: 0xEB, A: 255}
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
