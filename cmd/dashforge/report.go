package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/chart"
	"github.com/dashforge/dashforge/pkg/project"
	"github.com/dashforge/dashforge/pkg/report"
	"github.com/dashforge/dashforge/pkg/report/content"
	consolefmt "github.com/dashforge/dashforge/pkg/report/format"
	"github.com/dashforge/dashforge/pkg/report/pages"
	"github.com/dashforge/dashforge/pkg/report/pdf"
)

// Exported chart images are rendered at 2x for print sharpness.
const (
	exportChartWidth  = 1200
	exportChartHeight = 700
)

// newReportCmd groups report subcommands.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Configure, preview, and export a project's report",
	}
	cmd.AddCommand(newReportSetCmd())
	cmd.AddCommand(newReportPreviewCmd())
	cmd.AddCommand(newReportExportCmd())
	return cmd
}

// reportSetFlags mirror the editable configuration fields; only flags the
// user actually set become part of the patch.
type reportSetFlags struct {
	title           string
	description     string
	date            string
	company         string
	accent          string
	pageSize        string
	confidentiality string
	logoFile        string

	includeCharts   bool
	includeAnalysis bool
	includeInsights bool
	includeSummary  bool

	charts string
}

func newReportSetCmd() *cobra.Command {
	var flags reportSetFlags

	c := &cobra.Command{
		Use:   "set <project-id>",
		Short: "Update report configuration fields",
		Long: strings.TrimSpace(`
Apply a sparse update to the report configuration. Only the flags given on
the command line change; everything else keeps its current value.

Examples:
  dashforge report set 01HV... --title "Q3 Review" --accent "#0EA5E9"
  dashforge report set 01HV... --include-summary --confidentiality confidential
  dashforge report set 01HV... --charts chartA,chartB   (sets selection order)`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), projectRunTimeout)
			defer cancel()

			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			patch, err := buildPatch(cmd, &flags)
			if err != nil {
				return err
			}
			p.Report.Config.Apply(patch)

			if cmd.Flags().Changed("charts") {
				selection := report.Selection{}
				for _, id := range strings.Split(flags.charts, ",") {
					id = strings.TrimSpace(id)
					if id == "" {
						continue
					}
					if _, ok := p.Chart(id); !ok {
						return fmt.Errorf("chart %s not found in project %s", id, p.ID)
					}
					selection.Add(id)
				}
				p.Report.Selection = selection
			}

			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid report configuration: %w", err)
			}

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Println("Report configuration updated")
			return nil
		},
	}

	c.Flags().StringVar(&flags.title, "title", "", "Report title")
	c.Flags().StringVar(&flags.description, "description", "", "Report description")
	c.Flags().StringVar(&flags.date, "date", "", "Cover date (YYYY-MM-DD)")
	c.Flags().StringVar(&flags.company, "company", "", "Company name")
	c.Flags().StringVar(&flags.accent, "accent", "", "Accent color (#RRGGBB)")
	c.Flags().StringVar(&flags.pageSize, "page-size", "", "Page size: a4|letter")
	c.Flags().StringVar(&flags.confidentiality, "confidentiality", "", "Confidentiality: public|internal|confidential|restricted")
	c.Flags().StringVar(&flags.logoFile, "logo", "", "Logo image file (embedded into the report)")
	c.Flags().BoolVar(&flags.includeCharts, "include-charts", true, "Include chart pages")
	c.Flags().BoolVar(&flags.includeAnalysis, "include-analysis", true, "Include analysis blocks")
	c.Flags().BoolVar(&flags.includeInsights, "include-insights", true, "Include insights blocks")
	c.Flags().BoolVar(&flags.includeSummary, "include-summary", false, "Include the executive summary page")
	c.Flags().StringVar(&flags.charts, "charts", "", "Comma-separated chart IDs setting the selection and its order")

	return c
}

// buildPatch converts changed flags into a sparse configuration patch.
func buildPatch(cmd *cobra.Command, flags *reportSetFlags) (report.Patch, error) {
	var patch report.Patch

	if cmd.Flags().Changed("title") {
		patch.Title = &flags.title
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &flags.description
	}
	if cmd.Flags().Changed("date") {
		patch.Date = &flags.date
	}
	if cmd.Flags().Changed("company") {
		patch.CompanyName = &flags.company
	}
	if cmd.Flags().Changed("accent") {
		patch.AccentColor = &flags.accent
	}
	if cmd.Flags().Changed("page-size") {
		size := report.PageSize(strings.ToLower(flags.pageSize))
		patch.PageSize = &size
	}
	if cmd.Flags().Changed("confidentiality") {
		level := report.Confidentiality(strings.ToLower(flags.confidentiality))
		patch.Confidentiality = &level
	}
	if cmd.Flags().Changed("logo") {
		logo, err := report.LoadLogo(flags.logoFile)
		if err != nil {
			return patch, fmt.Errorf("failed to load logo: %w", err)
		}
		patch.Logo = logo
	}
	if cmd.Flags().Changed("include-charts") {
		patch.IncludeCharts = &flags.includeCharts
	}
	if cmd.Flags().Changed("include-analysis") {
		patch.IncludeAnalysis = &flags.includeAnalysis
	}
	if cmd.Flags().Changed("include-insights") {
		patch.IncludeInsights = &flags.includeInsights
	}
	if cmd.Flags().Changed("include-summary") {
		patch.IncludeExecutiveSummary = &flags.includeSummary
	}

	return patch, nil
}

func newReportPreviewCmd() *cobra.Command {
	var (
		format   string
		outFile  string
		noColor  bool
		viewport string
	)

	c := &cobra.Command{
		Use:   "preview <project-id>",
		Short: "Show the report's page layout and table of contents",
		Long: strings.TrimSpace(`
Derive the logical page sequence for the current selection and print it as a
console outline or JSON. With --viewport the on-screen mockup dimensions are
computed as well, scaled to fit the given window.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), projectRunTimeout)
			defer cancel()

			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			layout := buildLayout(p)

			out, err := outputWriter(outFile)
			if err != nil {
				return err
			}
			defer out.Close()

			var mockup *pages.Preview
			if viewport != "" {
				vp, err := parseViewport(viewport)
				if err != nil {
					return err
				}
				fit := pages.Fit(pageMockupSize(p.Report.Config.PageSize), vp, pages.DefaultConstraints())
				mockup = &fit
			}

			switch strings.ToLower(format) {
			case "console":
				formatter := consolefmt.NewConsoleFormatter()
				formatter.EnableColors = !noColor && outFile == ""
				if err := formatter.Render(layout, p.Report.Config, out); err != nil {
					return err
				}
				if mockup != nil {
					fmt.Fprintf(out, "Page mockup: %.0fx%.0f px (scale %.2f)\n",
						mockup.Width, mockup.Height, mockup.Scale)
				}
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Config  report.Config  `json:"config"`
					Layout  pages.Layout   `json:"layout"`
					Preview *pages.Preview `json:"preview,omitempty"`
				}{p.Report.Config, layout, mockup})
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	c.Flags().StringVarP(&format, "format", "f", "console", "Output format: console|json")
	c.Flags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
	c.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors (console format)")
	c.Flags().StringVar(&viewport, "viewport", "", "Viewport size as WIDTHxHEIGHT px (e.g. 1280x800)")
	return c
}

// parseViewport reads a WIDTHxHEIGHT pixel pair.
func parseViewport(s string) (pages.Size, error) {
	var w, h float64
	if _, err := fmt.Sscanf(strings.ToLower(s), "%fx%f", &w, &h); err != nil || w <= 0 || h <= 0 {
		return pages.Size{}, fmt.Errorf("invalid viewport %q (expected WIDTHxHEIGHT, e.g. 1280x800)", s)
	}
	return pages.Size{Width: w, Height: h}, nil
}

// pageMockupSize returns the on-screen page dimensions at 96 DPI.
func pageMockupSize(size report.PageSize) pages.Size {
	if size == report.PageLetter {
		return pages.Size{Width: 816, Height: 1056}
	}
	return pages.Size{Width: 794, Height: 1123}
}

func newReportExportCmd() *cobra.Command {
	var outFile string

	c := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export the report as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), projectRunTimeout)
			defer cancel()

			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			layout := buildLayout(p)
			contents := chartContents(p)

			out, err := outputWriter(outFile)
			if err != nil {
				return err
			}
			defer out.Close()

			if err := pdf.New(p.Report.Config).Render(layout, contents, out); err != nil {
				return fmt.Errorf("failed to render PDF: %w", err)
			}

			slog.Info("Report exported", "project", p.ID, "pages", len(layout.Pages), "file", outFile)
			if outFile != "" {
				fmt.Printf("Exported %d pages to %s\n", len(layout.Pages), outFile)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&outFile, "out", "o", "report.pdf", "Output PDF file")
	return c
}

// buildLayout derives the logical page sequence from the current selection
// and configuration.
func buildLayout(p *project.Project) pages.Layout {
	charts := p.ChartsByID(p.Report.Selection)
	refs := make([]pages.ChartRef, 0, len(charts))
	for _, c := range charts {
		refs = append(refs, pages.ChartRef{ID: c.ID, Name: c.Name, Type: string(c.Type)})
	}

	return pages.Build(refs, pages.Options{
		IncludeCharts:           p.Report.Config.IncludeCharts,
		IncludeExecutiveSummary: p.Report.Config.IncludeExecutiveSummary,
	})
}

// chartContents renders each selected chart and resolves its commentary
// blocks. Charts that fail to render fall back to a placeholder in the PDF;
// the error is logged, not fatal.
func chartContents(p *project.Project) map[string]pdf.ChartContent {
	contents := make(map[string]pdf.ChartContent)

	for _, c := range p.ChartsByID(p.Report.Selection) {
		var cc pdf.ChartContent

		tbl, err := p.SlicedTable(c)
		if err != nil {
			slog.Warn("Skipping chart data", "chart", c.ID, "error", err)
		} else {
			png, err := chart.Render(c, tbl, p.Report.Config.AccentColor, exportChartWidth, exportChartHeight)
			if err != nil {
				slog.Warn("Failed to render chart image", "chart", c.ID, "error", err)
			} else {
				cc.PNG = png
			}
		}

		blocks := content.Split(c.Analysis)
		opts := p.Report.OptionsFor(c.ID)
		if opts.IncludeAnalysis {
			cc.Analysis = blocks.Analysis
		}
		if opts.IncludeInsights {
			cc.Insights = blocks.Insights
		}

		contents[c.ID] = cc
	}

	return contents
}
