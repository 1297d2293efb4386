package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/dataset"
	"github.com/dashforge/dashforge/pkg/project"
)

var projectRunTimeout = 30 * time.Second

// newProjectCmd groups project CRUD subcommands.
func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage dashboard projects",
	}
	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectDeleteCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var description string

	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new project",
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

			p := project.New(args[0])
			p.Description = description
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	c.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return c
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
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

			summaries, err := store.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			if len(summaries) == 0 {
				fmt.Println("No projects yet. Create one with 'dashforge project create <name>'.")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"ID", "Name", "Charts", "Updated"})
			for _, s := range summaries {
				tw.AppendRow(table.Row{s.ID, s.Name, s.Charts, s.UpdatedAt.Local().Format("2006-01-02 15:04")})
			}
			tw.Render()
			return nil
		},
	}
}

func newProjectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project's datasets, charts, and report state",
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

			fmt.Printf("%s (%s)\n", p.Name, p.ID)
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
			fmt.Printf("  Created: %s  Updated: %s\n",
				p.CreatedAt.Local().Format("2006-01-02 15:04"),
				p.UpdatedAt.Local().Format("2006-01-02 15:04"))

			fmt.Printf("\nDatasets (%d)\n", len(p.Datasets))
			for _, d := range p.Datasets {
				fmt.Printf("  %-20s %d columns, %d rows\n", d.Name, len(d.Columns), len(d.Rows))
			}

			fmt.Printf("\nCharts (%d)\n", len(p.Charts))
			for _, c := range p.Charts {
				selected := " "
				if p.Report.Selection.Contains(c.ID) {
					selected = "*"
				}
				fmt.Printf("  %s %s  %-24s %s of %s by %s (dataset %s)\n",
					selected, c.ID, c.Name, c.Aggregation, c.YField, c.XField, c.Dataset)
			}
			if len(p.Charts) > 0 {
				fmt.Println("\n  (* = included in the report, in selection order)")
			}

			fmt.Printf("\nReport: %q, %s, %s, accent %s\n",
				p.Report.Config.Title, p.Report.Config.PageSize,
				p.Report.Config.Confidentiality, p.Report.Config.AccentColor)
			return nil
		},
	}
}

func newProjectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
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

			if err := store.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}
			fmt.Printf("Deleted project %s\n", args[0])
			return nil
		},
	}
}

// newImportCmd loads a tabular file into a project as a named dataset.
func newImportCmd() *cobra.Command {
	var name string

	c := &cobra.Command{
		Use:   "import <project-id> <file>",
		Short: "Import a CSV or Excel file into a project",
		Long: strings.TrimSpace(`
Import a tabular data file as a dataset of the project. The first row is
treated as the header. Supported formats: ` + strings.Join(dataset.SupportedFormats(), ", ") + `.

Re-importing under an existing dataset name replaces that dataset.`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, file := args[0], args[1]

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

			p, err := store.Get(ctx, projectID)
			if err != nil {
				return err
			}

			tbl, err := dataset.ImportFile(file)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", file, err)
			}
			if name != "" {
				tbl.Name = name
			}

			// Replace a dataset with the same name, else append
			replaced := false
			for i := range p.Datasets {
				if p.Datasets[i].Name == tbl.Name {
					p.Datasets[i] = *tbl
					replaced = true
					break
				}
			}
			if !replaced {
				p.Datasets = append(p.Datasets, *tbl)
			}

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			slog.Info("Dataset imported", "project", p.ID, "dataset", tbl.Name, "rows", len(tbl.Rows))
			fmt.Printf("Imported %q: %d columns, %d rows\n", tbl.Name, len(tbl.Columns), len(tbl.Rows))
			return nil
		},
	}

	c.Flags().StringVarP(&name, "name", "n", "", "Dataset name (default: derived from the filename)")
	return c
}
