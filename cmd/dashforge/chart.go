package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/project"
	"github.com/dashforge/dashforge/pkg/report"
)

// newChartCmd groups chart subcommands.
func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Manage charts in a project",
	}
	cmd.AddCommand(newChartAddCmd())
	cmd.AddCommand(newChartRemoveCmd())
	cmd.AddCommand(newChartAnalysisCmd())
	cmd.AddCommand(newChartOptionsCmd())
	return cmd
}

func newChartAddCmd() *cobra.Command {
	var (
		name        string
		chartType   string
		datasetName string
		xField      string
		yField      string
		aggregation string
		slicers     []string
		analysis    string
	)

	c := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a chart definition to a project",
		Long: strings.TrimSpace(`
Add a chart over one of the project's datasets. The chart is appended to the
report selection so it appears in previews and exports immediately; use
'report set --charts' to reorder or trim the selection.

Types: bar, line, pie, donut, area
Aggregations: count, sum, avg, min, max (count ignores --y-field)`),
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

			chart := project.Chart{
				ID:          project.NewID(),
				Name:        name,
				Type:        project.ChartType(strings.ToLower(chartType)),
				Dataset:     datasetName,
				XField:      xField,
				YField:      yField,
				Aggregation: project.Aggregation(strings.ToLower(aggregation)),
				Slicers:     slicers,
				Analysis:    analysis,
			}
			p.Charts = append(p.Charts, chart)
			p.Report.Selection.Add(chart.ID)

			if err := p.Validate(); err != nil {
				return fmt.Errorf("invalid chart definition: %w", err)
			}

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Added chart %q (%s)\n", chart.Name, chart.ID)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "Chart display name")
	c.Flags().StringVar(&chartType, "type", "bar", "Chart type: bar|line|pie|donut|area")
	c.Flags().StringVar(&datasetName, "dataset", "", "Dataset the chart reads from")
	c.Flags().StringVar(&xField, "x-field", "", "Category column")
	c.Flags().StringVar(&yField, "y-field", "", "Value column (unused for count)")
	c.Flags().StringVar(&aggregation, "aggregation", "sum", "Aggregation: count|sum|avg|min|max")
	c.Flags().StringArrayVar(&slicers, "slicer", nil, "Slicer ID to apply (repeatable)")
	c.Flags().StringVar(&analysis, "analysis", "", "Initial analysis commentary")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("dataset")
	_ = c.MarkFlagRequired("x-field")

	return c
}

func newChartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <chart-id>",
		Short: "Remove a chart from a project",
		Args:  cobra.ExactArgs(2),
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

			chartID := args[1]
			kept := p.Charts[:0]
			found := false
			for _, c := range p.Charts {
				if c.ID == chartID {
					found = true
					continue
				}
				kept = append(kept, c)
			}
			if !found {
				return fmt.Errorf("chart %s not found in project %s", chartID, p.ID)
			}
			p.Charts = kept
			p.Report.Selection.Remove(chartID)
			p.Report.ClearOptions(chartID)

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Removed chart %s\n", chartID)
			return nil
		},
	}
}

func newChartAnalysisCmd() *cobra.Command {
	var fromFile string

	c := &cobra.Command{
		Use:   "analysis <project-id> <chart-id> [text]",
		Short: "Set the analysis commentary for a chart",
		Long: strings.TrimSpace(`
Store commentary for a chart. At render time the text is split into an
analysis block and an insights block; paragraphs after a blank line, lines
after a line break, or a recommendation phrase ("Consider ...", "Focus on
...") start the insights block.`),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("failed to read analysis file: %w", err)
				}
				text = string(data)
			case len(args) == 3:
				text = args[2]
			default:
				return fmt.Errorf("provide the analysis text as an argument or via --file")
			}

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

			chart, ok := p.Chart(args[1])
			if !ok {
				return fmt.Errorf("chart %s not found in project %s", args[1], p.ID)
			}
			chart.Analysis = text

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Updated analysis for chart %s\n", chart.ID)
			return nil
		},
	}

	c.Flags().StringVarP(&fromFile, "file", "f", "", "Read analysis text from a file")
	return c
}

func newChartOptionsCmd() *cobra.Command {
	var (
		includeAnalysis bool
		includeInsights bool
		reset           bool
	)

	c := &cobra.Command{
		Use:   "options <project-id> <chart-id>",
		Short: "Override report content options for one chart",
		Long: strings.TrimSpace(`
Set per-chart overrides for which commentary blocks the report includes.
Charts without an override follow the report-level toggles; --reset removes
the override.`),
		Args: cobra.ExactArgs(2),
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

			chartID := args[1]
			if _, ok := p.Chart(chartID); !ok {
				return fmt.Errorf("chart %s not found in project %s", chartID, p.ID)
			}

			if reset {
				p.Report.ClearOptions(chartID)
			} else {
				p.Report.SetOptions(chartID, report.ChartOptions{
					IncludeAnalysis: includeAnalysis,
					IncludeInsights: includeInsights,
				})
			}

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Updated content options for chart %s\n", chartID)
			return nil
		},
	}

	c.Flags().BoolVar(&includeAnalysis, "analysis", true, "Include the analysis block")
	c.Flags().BoolVar(&includeInsights, "insights", true, "Include the insights block")
	c.Flags().BoolVar(&reset, "reset", false, "Remove the per-chart override")
	return c
}
