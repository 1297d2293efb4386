package pdf

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/dashforge/dashforge/pkg/report"
	"github.com/dashforge/dashforge/pkg/report/pages"
)

// A valid 1x1 transparent PNG.
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func sampleLayout() pages.Layout {
	charts := []pages.ChartRef{
		{ID: "c1", Name: "Revenue", Type: "line"},
		{ID: "c2", Name: "Churn", Type: "bar"},
	}
	return pages.Build(charts, pages.Options{IncludeCharts: true, IncludeExecutiveSummary: true})
}

func TestRenderProducesPDF(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.Title = "Q3 Review"
	cfg.CompanyName = "Acme"
	cfg.ExecutiveSummary = "A solid quarter across all segments."
	cfg.Highlights = []string{"Revenue up 12%", "Churn down 2pts"}

	charts := map[string]ChartContent{
		"c1": {PNG: tinyPNG, Analysis: "Revenue grew steadily.", Insights: "Consider expanding."},
		// c2 intentionally missing: must render as placeholder.
	}

	var buf bytes.Buffer
	if err := New(cfg).Render(sampleLayout(), charts, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if buf.Len() < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	layout := pages.Build(nil, pages.Options{IncludeCharts: true})

	var buf bytes.Buffer
	if err := New(report.DefaultConfig()).Render(layout, nil, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRenderLetterSize(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.PageSize = report.PageLetter

	var buf bytes.Buffer
	if err := New(cfg).Render(sampleLayout(), nil, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func TestRenderWithLogo(t *testing.T) {
	cfg := report.DefaultConfig()
	cfg.Logo = report.Logo{
		DataURI:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG),
		Filename: "logo.png",
	}

	var buf bytes.Buffer
	if err := New(cfg).Render(sampleLayout(), nil, &buf); err != nil {
		t.Fatalf("Render with logo failed: %v", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantKind string
		wantErr  bool
	}{
		{"png", "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG), "PNG", false},
		{"jpeg", "data:image/jpeg;base64,abcd", "JPG", false},
		{"empty", "", "", true},
		{"no comma", "data:image/png;base64", "", true},
		{"not base64 encoded marker", "data:image/png,rawdata", "", true},
		{"unknown type", "data:image/webp;base64,abcd", "", true},
		{"bad payload", "data:image/png;base64,&&&&", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, kind, err := decodeDataURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
		})
	}
}

func TestParseAccent(t *testing.T) {
	r, g, b := parseAccent("#FF0080")
	if r != 0xFF || g != 0 || b != 0x80 {
		t.Errorf("parsed %d,%d,%d", r, g, b)
	}
	// Malformed values fall back to the default accent.
	dr, dg, db := parseAccent("blue")
	if dr != 0x25 || dg != 0x63 || db != 0xEB {
		t.Errorf("fallback = %d,%d,%d", dr, dg, db)
	}
}
