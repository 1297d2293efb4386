package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/config"
	"github.com/dashforge/dashforge/pkg/project"
)

// build-time override (e.g. -ldflags "-X main.version=1.2.3")
var version = "dev"

// Global (root-level) flag variables
var (
	flagVerbose bool
	flagDebug   bool
	flagConfig  string
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		// If Execute() returns an error, logging may or may not be initialized yet.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root Cobra command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashforge",
		Short: "dashforge CLI",
		Long: strings.TrimSpace(`
dashforge - Dashboard report builder

Import tabular data into projects, define charts and slicers, and export
branded PDF reports with generated commentary. Projects live in a local
database and can be synced to a GitHub or GitLab repository.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (info) logging")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging (overrides --verbose)")
	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to settings file (default: ~/.dashforge/config.yaml)")
	cmd.Version = version

	// Add subcommands
	cmd.AddCommand(newProjectCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newChartCmd())
	cmd.AddCommand(newSlicerCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSummaryCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newVersionCmd prints version info (simple helper).
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dashforge version: %s\n", version)
		},
	}
}

func initLogging() {
	var level slog.Level
	switch {
	case flagDebug:
		level = slog.LevelDebug
	case flagVerbose:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging initialized", "level", level.String())
}

// loadSettings loads the settings file. An explicit --config path must
// exist; the default location is optional and falls back to defaults.
func loadSettings() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFromFile(flagConfig)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidate := filepath.Join(home, ".dashforge", "config.yaml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return config.LoadFromFile(candidate)
		}
	}

	return config.Default(), nil
}

// openStore opens the project database named by the settings.
func openStore(cfg *config.Config) (*project.SQLiteStore, error) {
	store, err := project.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}
	return store, nil
}

// outputWriter returns the destination for rendered output: a created file
// when path is set, otherwise stdout (which must not be closed).
func outputWriter(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	// stdout should not be closed
	return nil
}
