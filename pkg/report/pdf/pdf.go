// Package pdf renders a report layout to a branded PDF document. Each
// logical page maps to one output page; missing chart images or empty text
// blocks degrade to placeholder content rather than failing the export.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dashforge/dashforge/pkg/report"
	"github.com/dashforge/dashforge/pkg/report/pages"
)

// ChartContent is the renderable material for one chart: the rasterized
// image plus the parsed analysis blocks, already filtered by the per-chart
// content options.
type ChartContent struct {
	PNG      []byte
	Analysis string
	Insights string
}

// Renderer writes report layouts as PDF documents.
type Renderer struct {
	cfg report.Config

	accentR, accentG, accentB int

	// tr maps UTF-8 text into the core-font codepage for the current
	// document. Set at the start of Render.
	tr func(string) string
}

// New creates a renderer for the given report configuration.
func New(cfg report.Config) *Renderer {
	r := &Renderer{cfg: cfg}
	r.accentR, r.accentG, r.accentB = parseAccent(cfg.AccentColor)
	return r
}

// Render writes the layout as a PDF. charts maps chart ID to its content;
// missing entries render as placeholders.
func (r *Renderer) Render(layout pages.Layout, charts map[string]ChartContent, w io.Writer) error {
	doc := gofpdf.New("P", "mm", r.paperSize(), "")
	r.tr = doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(r.cfg.Title, true)
	doc.SetAuthor(r.cfg.CompanyName, true)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", doc.PageNo()),
			"", 0, "C", false, 0, "")
	})

	for _, p := range layout.Pages {
		doc.AddPage()
		switch p.Kind {
		case pages.KindCover:
			r.renderCover(doc)
		case pages.KindTableOfContents:
			r.renderTOC(doc, p.Entries)
		case pages.KindExecutiveSummary:
			r.renderSummary(doc)
		case pages.KindChart:
			r.renderChartPage(doc, p, charts)
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (r *Renderer) paperSize() string {
	if r.cfg.PageSize == report.PageLetter {
		return "Letter"
	}
	return "A4"
}

func (r *Renderer) renderCover(doc *gofpdf.Fpdf) {
	pageW, _ := doc.GetPageSize()

	// Accent rule across the top.
	doc.SetFillColor(r.accentR, r.accentG, r.accentB)
	doc.Rect(0, 0, pageW, 8, "F")

	if img, kind, err := decodeDataURI(r.cfg.Logo.DataURI); err == nil {
		opts := gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}
		doc.RegisterImageOptionsReader("logo", opts, bytes.NewReader(img))
		doc.ImageOptions("logo", 20, 24, 40, 0, false, opts, 0, "")
	}

	doc.SetY(90)
	doc.SetFont("Helvetica", "B", 30)
	doc.SetTextColor(30, 30, 30)
	doc.MultiCell(0, 14, r.tr(r.cfg.Title), "", "C", false)

	if r.cfg.Description != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "", 12)
		doc.SetTextColor(90, 90, 90)
		doc.MultiCell(0, 7, r.tr(r.cfg.Description), "", "C", false)
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(60, 60, 60)
	if r.cfg.CompanyName != "" {
		doc.CellFormat(0, 7, r.tr(r.cfg.CompanyName), "", 1, "C", false, 0, "")
	}
	if r.cfg.Date != "" {
		doc.CellFormat(0, 7, r.cfg.Date, "", 1, "C", false, 0, "")
	}

	// Confidentiality banner near the foot of the page.
	doc.SetY(-40)
	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(r.accentR, r.accentG, r.accentB)
	doc.CellFormat(0, 6, strings.ToUpper(string(r.cfg.Confidentiality)), "", 1, "C", false, 0, "")
}

func (r *Renderer) renderTOC(doc *gofpdf.Fpdf, entries []pages.TOCEntry) {
	r.renderHeading(doc, "Table of Contents")

	doc.SetFont("Helvetica", "", 11)
	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageW - left - right

	for _, e := range entries {
		doc.SetTextColor(30, 30, 30)
		title := e.Title
		numStr := fmt.Sprintf("%d", e.PageNumber)

		titleW := usable - 14
		doc.CellFormat(titleW, 8, dotLeader(doc, r.tr(title), titleW), "", 0, "L", false, 0, "")
		doc.CellFormat(14, 8, numStr, "", 1, "R", false, 0, "")

		if e.Subtitle != "" {
			doc.SetFont("Helvetica", "I", 9)
			doc.SetTextColor(120, 120, 120)
			doc.CellFormat(usable, 5, r.tr(e.Subtitle), "", 1, "L", false, 0, "")
			doc.SetFont("Helvetica", "", 11)
		}
	}
}

func (r *Renderer) renderSummary(doc *gofpdf.Fpdf) {
	r.renderHeading(doc, "Executive Summary")

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(30, 30, 30)
	summary := r.cfg.ExecutiveSummary
	if strings.TrimSpace(summary) == "" {
		summary = "Executive summary not generated."
	}
	doc.MultiCell(0, 6, r.tr(summary), "", "L", false)

	if len(r.cfg.Highlights) > 0 {
		doc.Ln(6)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 8, "Highlights", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		for _, h := range r.cfg.Highlights {
			doc.MultiCell(0, 6, "• "+h, "", "L", false)
		}
	}
}

func (r *Renderer) renderChartPage(doc *gofpdf.Fpdf, p pages.Page, charts map[string]ChartContent) {
	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	usable := pageW - left - right

	for i, ref := range p.Charts {
		label := fmt.Sprintf("Chart %d", p.StartIndex+i+1)
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			name = label
		} else {
			name = fmt.Sprintf("%s — %s", label, name)
		}
		r.renderHeading(doc, name)

		content, ok := charts[ref.ID]
		if ok && len(content.PNG) > 0 {
			imgName := fmt.Sprintf("chart-%s", ref.ID)
			opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
			doc.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(content.PNG))
			doc.ImageOptions(imgName, left, doc.GetY(), usable, 0, true, opts, 0, "")
			doc.Ln(6)
		} else {
			doc.SetFont("Helvetica", "I", 11)
			doc.SetTextColor(120, 120, 120)
			doc.CellFormat(0, 10, "Chart preview not available", "", 1, "L", false, 0, "")
			doc.Ln(2)
		}

		if content.Analysis != "" {
			r.renderTextBlock(doc, "Analysis", content.Analysis)
		}
		if content.Insights != "" {
			r.renderTextBlock(doc, "Key Insights", content.Insights)
		}
	}
}

func (r *Renderer) renderTextBlock(doc *gofpdf.Fpdf, heading, body string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(r.accentR, r.accentG, r.accentB)
	doc.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(30, 30, 30)
	doc.MultiCell(0, 6, r.tr(body), "", "L", false)
	doc.Ln(2)
}

func (r *Renderer) renderHeading(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 18)
	doc.SetTextColor(30, 30, 30)
	doc.CellFormat(0, 12, r.tr(title), "", 1, "L", false, 0, "")
	doc.SetDrawColor(r.accentR, r.accentG, r.accentB)
	doc.SetLineWidth(0.6)
	left, _, right, _ := doc.GetMargins()
	pageW, _ := doc.GetPageSize()
	y := doc.GetY() + 1
	doc.Line(left, y, pageW-right, y)
	doc.Ln(6)
}

// dotLeader pads title with dot leaders up to width mm, truncating overly
// long titles first.
func dotLeader(doc *gofpdf.Fpdf, title string, width float64) string {
	for doc.GetStringWidth(title+" ....") > width && len(title) > 1 {
		title = title[:len(title)-1]
	}
	dots := " "
	for doc.GetStringWidth(title+dots+".") < width-2 {
		dots += "."
	}
	return title + dots
}

// decodeDataURI extracts the image bytes and gofpdf image type from a
// "data:image/...;base64," URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	if uri == "" {
		return nil, "", fmt.Errorf("empty data URI")
	}
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.Contains(header, "base64") {
		return nil, "", fmt.Errorf("unsupported data URI")
	}

	kind := "PNG"
	switch {
	case strings.Contains(header, "image/jpeg"), strings.Contains(header, "image/jpg"):
		kind = "JPG"
	case strings.Contains(header, "image/gif"):
		kind = "GIF"
	case strings.Contains(header, "image/png"):
		kind = "PNG"
	default:
		return nil, "", fmt.Errorf("unsupported image type in data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URI: %w", err)
	}
	return data, kind, nil
}

// parseAccent converts "#RRGGBB" to RGB components, falling back to the
// default accent blue.
func parseAccent(s string) (int, int, int) {
	if len(s) == 7 && s[0] == '#' {
		var r, g, b int
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return r, g, b
		}
	}
	return 0x25, 0x63, 0xEB
}
