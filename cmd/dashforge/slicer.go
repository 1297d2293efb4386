package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/project"
)

// newSlicerCmd groups slicer subcommands.
func newSlicerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slicer",
		Short: "Manage dataset filters",
	}
	cmd.AddCommand(newSlicerAddCmd())
	cmd.AddCommand(newSlicerRemoveCmd())
	cmd.AddCommand(newSlicerListCmd())
	return cmd
}

func newSlicerAddCmd() *cobra.Command {
	var (
		name        string
		datasetName string
		column      string
		values      []string
	)

	c := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Add a slicer filtering a dataset column",
		Long: strings.TrimSpace(`
Define a named filter over a dataset column. Attach it to charts with
'chart add --slicer <id>'; only rows whose column value is among the
selected values feed those charts. Values must appear in the column.`),
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

			tbl, ok := p.Dataset(datasetName)
			if !ok {
				return fmt.Errorf("dataset %q not found in project %s", datasetName, p.ID)
			}
			distinct, err := tbl.DistinctValues(column)
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(distinct))
			for _, v := range distinct {
				known[v] = true
			}
			for _, v := range values {
				if !known[v] {
					return fmt.Errorf("value %q not present in column %q (available: %s)",
						v, column, strings.Join(distinct, ", "))
				}
			}

			sl := project.Slicer{
				ID:     project.NewID(),
				Name:   name,
				Column: column,
				Values: values,
			}
			p.Slicers = append(p.Slicers, sl)

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Added slicer %q (%s)\n", sl.Name, sl.ID)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "Slicer display name")
	c.Flags().StringVar(&datasetName, "dataset", "", "Dataset the slicer filters")
	c.Flags().StringVar(&column, "column", "", "Column the slicer matches against")
	c.Flags().StringSliceVar(&values, "values", nil, "Values to keep (comma separated)")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("dataset")
	_ = c.MarkFlagRequired("column")

	return c
}

func newSlicerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <slicer-id>",
		Short: "Remove a slicer and detach it from charts",
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

			slicerID := args[1]
			if !p.RemoveSlicer(slicerID) {
				return fmt.Errorf("slicer %s not found in project %s", slicerID, p.ID)
			}

			p.Touch()
			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}

			fmt.Printf("Removed slicer %s\n", slicerID)
			return nil
		},
	}
}

func newSlicerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List slicers with the values their columns offer",
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

			if len(p.Slicers) == 0 {
				fmt.Println("No slicers defined.")
				return nil
			}
			for _, sl := range p.Slicers {
				fmt.Printf("%s  %s (column %s)\n", sl.ID, sl.Name, sl.Column)
				fmt.Printf("  selected: %s\n", strings.Join(sl.Values, ", "))
				for _, tbl := range p.Datasets {
					if _, ok := tbl.ColumnIndex(sl.Column); ok {
						distinct, err := tbl.DistinctValues(sl.Column)
						if err != nil {
							continue
						}
						fmt.Printf("  available in %s: %s\n", tbl.Name, strings.Join(distinct, ", "))
					}
				}
			}
			return nil
		},
	}
}
