package sync

import (
	"fmt"
	"strings"
)

// Provider identifies a supported hosting provider
type Provider string

const (
	// ProviderGitHub syncs with github.com or GitHub Enterprise
	ProviderGitHub Provider = "github"
	// ProviderGitLab syncs with gitlab.com or self-hosted GitLab
	ProviderGitLab Provider = "gitlab"
)

// NewClient creates a sync client for the given provider
// The provider parameter is case-insensitive and supports the following values:
//   - "github" - Creates a GitHub client
//   - "gitlab" - Creates a GitLab client
//
// Returns an error if the provider is not recognized
func NewClient(provider string, config Config) (Client, error) {
	// Normalize provider name to lowercase for comparison
	normalized := strings.ToLower(strings.TrimSpace(provider))

	switch Provider(normalized) {
	case ProviderGitHub:
		return NewGitHubClient(config)
	case ProviderGitLab:
		return NewGitLabClient(config)
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: github, gitlab)", provider)
	}
}

// SupportedProviders returns a list of all supported provider names
func SupportedProviders() []string {
	return []string{
		string(ProviderGitHub),
		string(ProviderGitLab),
	}
}
