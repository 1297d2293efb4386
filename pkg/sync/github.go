package sync

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// githubRepositories is the subset of go-github's Repositories service used
// by GitHubClient. Narrowing it to an interface keeps the client mockable.
type githubRepositories interface {
	Create(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

type githubUsers interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

// GitHubAPI groups the GitHub services the client depends on.
type GitHubAPI struct {
	Repositories githubRepositories
	Users        githubUsers
}

// GitHubClient implements the Client interface for GitHub
type GitHubClient struct {
	api    GitHubAPI
	config Config
}

// NewGitHubClient creates a new GitHub client with the provided configuration
// If a custom BaseURL is provided, it will be used for GitHub Enterprise instances
func NewGitHubClient(config Config) (*GitHubClient, error) {
	var client *github.Client

	ctx := context.Background()

	// Configure authentication if token is provided
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: config.Token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	} else {
		client = github.NewClient(nil)
	}

	// Set custom base URL for GitHub Enterprise if provided
	if config.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub Enterprise URL: %w", err)
		}
	}

	return &GitHubClient{
		api: GitHubAPI{
			Repositories: client.Repositories,
			Users:        client.Users,
		},
		config: config,
	}, nil
}

// VerifyCredentials checks the token by fetching the authenticated user
func (g *GitHubClient) VerifyCredentials(ctx context.Context) (string, error) {
	user, resp, err := g.api.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to verify GitHub credentials: %w", err)
	}
	defer closeResponse(resp)

	return user.GetLogin(), nil
}

// CreateRepository creates a repository under the authenticated user
func (g *GitHubClient) CreateRepository(ctx context.Context, name, description string, private bool) (*Repository, error) {
	repo := &github.Repository{
		Name:        github.String(name),
		Description: github.String(description),
		Private:     github.Bool(private),
		AutoInit:    github.Bool(true),
	}

	created, resp, err := g.api.Repositories.Create(ctx, "", repo)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub repository: %w", err)
	}
	defer closeResponse(resp)

	return &Repository{
		ID:            fmt.Sprintf("%d", created.GetID()),
		Name:          created.GetName(),
		FullName:      created.GetFullName(),
		Description:   created.GetDescription(),
		DefaultBranch: created.GetDefaultBranch(),
		URL:           created.GetHTMLURL(),
	}, nil
}

// UploadFile creates or updates a file on the given branch. The existing
// file's blob SHA is looked up first: an identical blob skips the commit,
// a differing one is passed back so GitHub accepts the overwrite.
func (g *GitHubClient) UploadFile(ctx context.Context, owner, repo, branch, path string, content []byte, message string) error {
	existingSHA, err := g.findFileSHA(ctx, owner, repo, branch, path)
	if err != nil {
		return err
	}

	if existingSHA == BlobSHA(content) {
		// Remote already holds this exact content
		return nil
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
	}
	if branch != "" {
		opts.Branch = github.String(branch)
	}

	if existingSHA != "" {
		opts.SHA = github.String(existingSHA)
		_, resp, err := g.api.Repositories.UpdateFile(ctx, owner, repo, path, opts)
		if err != nil {
			return fmt.Errorf("failed to update file on GitHub: %w", err)
		}
		defer closeResponse(resp)
		return nil
	}

	_, resp, err := g.api.Repositories.CreateFile(ctx, owner, repo, path, opts)
	if err != nil {
		return fmt.Errorf("failed to create file on GitHub: %w", err)
	}
	defer closeResponse(resp)
	return nil
}

// findFileSHA returns the blob SHA of path on ref, or "" if the file does
// not exist yet
func (g *GitHubClient) findFileSHA(ctx context.Context, owner, repo, ref, path string) (string, error) {
	opts := &github.RepositoryContentGetOptions{}
	if ref != "" {
		opts.Ref = ref
	}

	fileContent, _, resp, err := g.api.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to check existing file on GitHub: %w", err)
	}
	defer closeResponse(resp)

	if fileContent == nil {
		return "", fmt.Errorf("path is not a file: %s", path)
	}
	return fileContent.GetSHA(), nil
}

// DownloadFile retrieves the content of a file from a GitHub repository
func (g *GitHubClient) DownloadFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{}
	if ref != "" {
		opts.Ref = ref
	}

	fileContent, _, resp, err := g.api.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from GitHub: %w", err)
	}
	defer closeResponse(resp)

	// Check if we got a file (not a directory)
	if fileContent == nil {
		return nil, fmt.Errorf("path is not a file: %s", path)
	}

	// GitHub API returns base64 encoded content
	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	return []byte(content), nil
}

func closeResponse(resp *github.Response) {
	if resp == nil || resp.Response == nil || resp.Body == nil {
		return
	}
	if err := resp.Body.Close(); err != nil {
		fmt.Printf("warning: failed to close response body: %v\n", err)
	}
}
