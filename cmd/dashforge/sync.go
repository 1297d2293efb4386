package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashforge/dashforge/pkg/config"
	"github.com/dashforge/dashforge/pkg/state"
	gitsync "github.com/dashforge/dashforge/pkg/sync"
)

var syncRunTimeout = 2 * time.Minute

// newSyncCmd groups the remote-repository subcommands.
func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync project bundles with a GitHub or GitLab repository",
	}
	cmd.AddCommand(newSyncVerifyCmd())
	cmd.AddCommand(newSyncInitCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	return cmd
}

// syncClient resolves the provider settings and token, then builds a client.
func syncClient(cfg *config.Config, provider string) (gitsync.Client, config.ProviderConfig, error) {
	pc, err := cfg.Provider(provider)
	if err != nil {
		return nil, pc, err
	}

	token, err := state.ResolveProviderToken(provider, pc.Token, nil)
	if err != nil {
		return nil, pc, err
	}
	if token == "" {
		return nil, pc, fmt.Errorf("no token for provider %s (set %s or the settings file)", provider, state.EnvTokenName(provider))
	}
	slog.Debug("Resolved provider token", "provider", provider, "token", state.RedactToken(token))

	client, err := gitsync.NewClient(provider, gitsync.Config{Token: token, BaseURL: pc.BaseURL})
	if err != nil {
		return nil, pc, err
	}
	return client, pc, nil
}

func newSyncVerifyCmd() *cobra.Command {
	var provider string

	c := &cobra.Command{
		Use:   "verify",
		Short: "Verify the stored credentials for a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			client, _, err := syncClient(cfg, provider)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), syncRunTimeout)
			defer cancel()

			username, err := client.VerifyCredentials(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Authenticated to %s as %s\n", provider, username)
			return nil
		},
	}

	c.Flags().StringVarP(&provider, "provider", "p", "github", "Provider: github|gitlab")
	return c
}

func newSyncInitCmd() *cobra.Command {
	var (
		provider    string
		description string
		private     bool
	)

	c := &cobra.Command{
		Use:   "init <name>",
		Short: "Create the remote repository used for sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			client, _, err := syncClient(cfg, provider)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), syncRunTimeout)
			defer cancel()

			repo, err := client.CreateRepository(ctx, args[0], description, private)
			if err != nil {
				return err
			}
			fmt.Printf("Created repository %s (%s)\n", repo.FullName, repo.URL)
			return nil
		},
	}

	c.Flags().StringVarP(&provider, "provider", "p", "github", "Provider: github|gitlab")
	c.Flags().StringVarP(&description, "description", "d", "", "Repository description")
	c.Flags().BoolVar(&private, "private", true, "Create a private repository")
	return c
}

func newSyncPushCmd() *cobra.Command {
	var provider string

	c := &cobra.Command{
		Use:   "push <project-id>",
		Short: "Upload a project bundle to the remote repository",
		Long: `Encode the project as a YAML bundle and commit it to the configured
repository. A bundle that matches the remote content is skipped without
creating a commit.`,
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

			client, pc, err := syncClient(cfg, provider)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), syncRunTimeout)
			defer cancel()

			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if err := gitsync.PushProject(ctx, client, pc.Owner, pc.Repository, pc.Branch, p); err != nil {
				return err
			}

			slog.Info("Project pushed", "project", p.ID, "provider", provider,
				"repository", pc.Owner+"/"+pc.Repository, "branch", pc.Branch)
			fmt.Printf("Pushed %s to %s/%s@%s\n", p.Name, pc.Owner, pc.Repository, pc.Branch)
			return nil
		},
	}

	c.Flags().StringVarP(&provider, "provider", "p", "github", "Provider: github|gitlab")
	return c
}

func newSyncPullCmd() *cobra.Command {
	var provider string

	c := &cobra.Command{
		Use:   "pull",
		Short: "Download the project bundle from the remote repository",
		Long: `Fetch the project bundle from the configured repository, validate it,
and save it into the local store (overwriting a project with the same ID).`,
		Args: cobra.NoArgs,
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

			client, pc, err := syncClient(cfg, provider)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), syncRunTimeout)
			defer cancel()

			p, err := gitsync.PullProject(ctx, client, pc.Owner, pc.Repository, pc.Branch)
			if err != nil {
				return err
			}

			if err := store.Save(ctx, p); err != nil {
				return fmt.Errorf("failed to save pulled project: %w", err)
			}

			fmt.Printf("Pulled %s (%s) from %s/%s\n", p.Name, p.ID, pc.Owner, pc.Repository)
			return nil
		},
	}

	c.Flags().StringVarP(&provider, "provider", "p", "github", "Provider: github|gitlab")
	return c
}
