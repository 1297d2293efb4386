// Package sync pushes and pulls project bundles to remote code-hosting
// providers (e.g., GitHub, GitLab). It defines common data structures for
// repository metadata plus a generic Client interface implemented by
// provider-specific clients.
package sync

import (
	"context"
	"crypto/sha1"
	"fmt"
)

// Repository contains metadata about a remote repository.
type Repository struct {
	ID            string // Repository ID
	Name          string // Repository name
	FullName      string // Full name (owner/repo or namespace/project)
	Description   string // Repository description
	DefaultBranch string // Default branch name
	URL           string // Web URL to the repository
}

// Client defines the interface for syncing files with a hosting provider.
// All implementations authenticate with a bearer token and surface transport
// or API failures as plain errors for the caller to display.
type Client interface {
	// VerifyCredentials checks that the configured token is valid and
	// returns the authenticated username.
	VerifyCredentials(ctx context.Context) (string, error)

	// CreateRepository creates a new repository under the authenticated
	// user's namespace.
	CreateRepository(ctx context.Context, name, description string, private bool) (*Repository, error)

	// UploadFile creates or overwrites a file at path on the given branch.
	// When the remote content already matches, the upload is skipped.
	UploadFile(ctx context.Context, owner, repo, branch, path string, content []byte, message string) error

	// DownloadFile retrieves the content of a file at a specific reference.
	// Empty ref uses the default branch.
	DownloadFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error)
}

// Config holds common configuration for sync clients
type Config struct {
	// Token is the authentication token
	// For GitHub: Personal Access Token
	// For GitLab: Personal Access Token or OAuth token
	Token string

	// BaseURL is the base URL for the API endpoint
	// For GitHub Enterprise or GitLab self-hosted instances
	// Leave empty for public GitHub (github.com) or GitLab (gitlab.com)
	BaseURL string
}

// BlobSHA computes the git blob object hash of content. Both providers
// expose this hash for stored files, so comparing it against the local
// content decides whether an upload can be skipped.
func BlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}
