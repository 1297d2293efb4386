// Package format renders a report layout preview in a terminal-friendly way.
// It adapts column widths to the console and supports color and truncation.
package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/dashforge/dashforge/pkg/report"
	"github.com/dashforge/dashforge/pkg/report/pages"
)

// ConsoleFormatter renders a report layout as outline and table-of-contents
// tables sized to the current terminal.
type ConsoleFormatter struct {
	// MaxTitleColWidth constrains the title column. If 0, a dynamic width
	// is chosen based on terminal width (with a sane minimum).
	MaxTitleColWidth int

	// EnableColors toggles ANSI color output for kind and banner cells.
	EnableColors bool
}

// NewConsoleFormatter creates a formatter with sensible defaults.
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{
		MaxTitleColWidth: 0,
		EnableColors:     true,
	}
}

// Render writes the formatted preview to writer.
func (f *ConsoleFormatter) Render(layout pages.Layout, cfg report.Config, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "%s\n", cfg.Title); err != nil {
		return fmt.Errorf("failed writing report title: %w", err)
	}
	meta := make([]string, 0, 3)
	if cfg.CompanyName != "" {
		meta = append(meta, cfg.CompanyName)
	}
	if cfg.Date != "" {
		meta = append(meta, cfg.Date)
	}
	meta = append(meta, f.confidentialityBanner(cfg.Confidentiality))
	if _, err := fmt.Fprintf(writer, "%s\n\n", strings.Join(meta, " | ")); err != nil {
		return fmt.Errorf("failed writing report meta line: %w", err)
	}

	titleWidth := f.titleColumnWidth(writer)

	outline := table.NewWriter()
	outline.SetOutputMirror(writer)
	outline.SetStyle(table.StyleRounded)
	outline.Style().Options.SeparateRows = false
	outline.Style().Options.SeparateColumns = false
	outline.AppendHeader(table.Row{"Page", "Kind", "Title"})
	outline.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: titleWidth, Transformer: truncTransformer(titleWidth)},
	})
	for _, p := range layout.Pages {
		outline.AppendRow(table.Row{p.Number, f.kindCell(p.Kind), p.Title()})
	}
	outline.Render()

	if _, err := fmt.Fprintf(writer, "\nTable of Contents:\n"); err != nil {
		return fmt.Errorf("failed writing toc header: %w", err)
	}
	toc := table.NewWriter()
	toc.SetOutputMirror(writer)
	toc.SetStyle(table.StyleRounded)
	toc.Style().Options.SeparateRows = false
	toc.Style().Options.SeparateColumns = false
	toc.AppendHeader(table.Row{"Title", "Subtitle", "Page"})
	toc.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: titleWidth, Transformer: truncTransformer(titleWidth)},
	})
	for _, e := range layout.TOC {
		toc.AppendRow(table.Row{e.Title, e.Subtitle, e.PageNumber})
	}
	toc.Render()

	chartPages := 0
	for _, p := range layout.Pages {
		if p.Kind == pages.KindChart {
			chartPages++
		}
	}
	if _, err := fmt.Fprintf(writer, "\nSummary:\n"); err != nil {
		return fmt.Errorf("failed writing summary header: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "  Pages: %d\n", len(layout.Pages)); err != nil {
		return fmt.Errorf("failed writing page count line: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "  Chart pages: %d\n", chartPages); err != nil {
		return fmt.Errorf("failed writing chart page count line: %w", err)
	}

	return nil
}

// kindCell returns the (optionally colored) display string for a page kind.
func (f *ConsoleFormatter) kindCell(k pages.Kind) string {
	switch k {
	case pages.KindCover:
		return f.color("cover", text.FgCyan)
	case pages.KindTableOfContents:
		return f.color("toc", text.FgCyan)
	case pages.KindExecutiveSummary:
		return f.color("summary", text.FgYellow)
	case pages.KindChart:
		return f.color("chart", text.FgGreen)
	}
	return string(k)
}

// confidentialityBanner renders the classification with severity coloring.
func (f *ConsoleFormatter) confidentialityBanner(c report.Confidentiality) string {
	label := strings.ToUpper(string(c))
	switch c {
	case report.ConfidentialityConfidential, report.ConfidentialityRestricted:
		return f.color(label, text.FgRed)
	case report.ConfidentialityInternal:
		return f.color(label, text.FgYellow)
	default:
		return f.color(label, text.FgHiBlack)
	}
}

// titleColumnWidth chooses a title column width that fits the terminal.
func (f *ConsoleFormatter) titleColumnWidth(w io.Writer) int {
	if f.MaxTitleColWidth > 0 {
		return f.MaxTitleColWidth
	}
	termWidth := detectTerminalWidth(w)
	if termWidth <= 0 {
		return 60
	}
	if termWidth < 60 {
		termWidth = 60
	}
	// Leave room for the page/kind columns and borders.
	width := termWidth - 24
	if width < 20 {
		width = 20
	}
	return width
}

// detectTerminalWidth attempts to get terminal width if writer is a file (stdout/stderr).
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return width
	}
	return -1
}

// truncTransformer returns a text.Transformer to ellipsize overly wide cells.
func truncTransformer(max int) text.Transformer {
	return func(val interface{}) string {
		s := fmt.Sprint(val)
		if runeLen := utf8.RuneCountInString(s); runeLen > max {
			if max <= 1 {
				return "…"
			}
			return truncateRunes(s, max)
		}
		return s
	}
}

// truncateRunes truncates a string to (max) runes with ellipsis.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count >= max-1 {
			break
		}
		b.WriteRune(r)
		count++
	}
	b.WriteRune('…')
	return b.String()
}

func (f *ConsoleFormatter) color(s string, c text.Color) string {
	if !f.EnableColors {
		return s
	}
	return text.Colors{c}.Sprint(s)
}

// RenderConsole renders the layout to the writer using the default formatter.
func RenderConsole(layout pages.Layout, cfg report.Config, w io.Writer) error {
	return NewConsoleFormatter().Render(layout, cfg, w)
}
