package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/assist"
)

// newSummaryCmd generates an executive summary via the assist service and
// stores it in the report configuration.
func newSummaryCmd() *cobra.Command {
	var (
		audience string
		timeout  time.Duration
	)

	c := &cobra.Command{
		Use:   "summary <project-id>",
		Short: "Generate an executive summary for the report",
		Long: `Send the selected charts' metadata to the configured assist service and
store the generated summary and highlights in the report. The summary page
is enabled automatically once generation succeeds.`,
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

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			charts := p.ChartsByID(p.Report.Selection)
			briefs := make([]assist.ChartBrief, 0, len(charts))
			for _, c := range charts {
				briefs = append(briefs, assist.ChartBrief{
					Name:     c.Name,
					Type:     string(c.Type),
					Analysis: c.Analysis,
				})
			}

			assistTimeout := time.Duration(cfg.Assist.TimeoutSeconds) * time.Second
			gen, err := assist.NewHTTPGenerator(assist.Config{
				Endpoint: cfg.Assist.Endpoint,
				APIKey:   cfg.Assist.APIKey,
				Timeout:  assistTimeout,
			})
			if err != nil {
				return err
			}

			summary, err := gen.ExecutiveSummary(ctx, assist.Request{
				ProjectName: p.Name,
				Description: p.Description,
				Charts:      briefs,
				Audience:    audience,
			})
			if err != nil {
				return fmt.Errorf("summary generation failed: %w", err)
			}

			p.Report.Config.ExecutiveSummary = summary.Text
			p.Report.Config.Highlights = summary.Highlights
			p.Report.Config.IncludeExecutiveSummary = true

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Println(summary.Text)
			if len(summary.Highlights) > 0 {
				fmt.Println()
				for _, h := range summary.Highlights {
					fmt.Printf("  - %s\n", h)
				}
			}
			return nil
		},
	}

	c.Flags().StringVar(&audience, "audience", "", "Intended audience hint for the summary")
	c.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for the generation call")
	return c
}
