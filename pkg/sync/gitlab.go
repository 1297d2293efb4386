package sync

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

type gitlabUsers interface {
	CurrentUser(options ...gitlab.RequestOptionFunc) (*gitlab.User, *gitlab.Response, error)
}

type gitlabProjects interface {
	CreateProject(opt *gitlab.CreateProjectOptions, options ...gitlab.RequestOptionFunc) (*gitlab.Project, *gitlab.Response, error)
}

type gitlabRepositoryFiles interface {
	GetFile(pid interface{}, fileName string, opt *gitlab.GetFileOptions, options ...gitlab.RequestOptionFunc) (*gitlab.File, *gitlab.Response, error)
	CreateFile(pid interface{}, fileName string, opt *gitlab.CreateFileOptions, options ...gitlab.RequestOptionFunc) (*gitlab.FileInfo, *gitlab.Response, error)
	UpdateFile(pid interface{}, fileName string, opt *gitlab.UpdateFileOptions, options ...gitlab.RequestOptionFunc) (*gitlab.FileInfo, *gitlab.Response, error)
}

// GitLabAPI groups the GitLab services the client depends on.
type GitLabAPI struct {
	Users           gitlabUsers
	Projects        gitlabProjects
	RepositoryFiles gitlabRepositoryFiles
}

// GitLabClient implements the Client interface for GitLab
type GitLabClient struct {
	api    GitLabAPI
	config Config
}

// NewGitLabClient creates a new GitLab client with the provided configuration
// If a custom BaseURL is provided, it will be used for self-hosted GitLab instances
func NewGitLabClient(config Config) (*GitLabClient, error) {
	// Configure client options
	opts := []gitlab.ClientOptionFunc{}

	// Set custom base URL for self-hosted GitLab if provided
	if config.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(config.BaseURL))
	}

	client, err := gitlab.NewClient(config.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabClient{
		api: GitLabAPI{
			Users:           client.Users,
			Projects:        client.Projects,
			RepositoryFiles: client.RepositoryFiles,
		},
		config: config,
	}, nil
}

// VerifyCredentials checks the token by fetching the current user
func (g *GitLabClient) VerifyCredentials(ctx context.Context) (string, error) {
	user, resp, err := g.api.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to verify GitLab credentials: %w", err)
	}
	defer resp.Body.Close()

	return user.Username, nil
}

// CreateRepository creates a project under the authenticated user's namespace
func (g *GitLabClient) CreateRepository(ctx context.Context, name, description string, private bool) (*Repository, error) {
	visibility := gitlab.PublicVisibility
	if private {
		visibility = gitlab.PrivateVisibility
	}

	opts := &gitlab.CreateProjectOptions{
		Name:                 gitlab.Ptr(name),
		Description:          gitlab.Ptr(description),
		Visibility:           gitlab.Ptr(visibility),
		InitializeWithReadme: gitlab.Ptr(true),
	}

	project, resp, err := g.api.Projects.CreateProject(opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab project: %w", err)
	}
	defer resp.Body.Close()

	return &Repository{
		ID:            fmt.Sprintf("%d", project.ID),
		Name:          project.Name,
		FullName:      project.PathWithNamespace,
		Description:   project.Description,
		DefaultBranch: project.DefaultBranch,
		URL:           project.WebURL,
	}, nil
}

// UploadFile creates or updates a file on the given branch. GitLab exposes
// the stored blob ID, so an unchanged file skips the commit entirely.
func (g *GitLabClient) UploadFile(ctx context.Context, owner, repo, branch, path string, content []byte, message string) error {
	// GitLab uses project ID or "namespace/project" format
	projectID := fmt.Sprintf("%s/%s", owner, repo)

	existingBlobID, err := g.findBlobID(ctx, projectID, branch, path)
	if err != nil {
		return err
	}

	if existingBlobID == BlobSHA(content) {
		// Remote already holds this exact content
		return nil
	}

	if existingBlobID != "" {
		opts := &gitlab.UpdateFileOptions{
			Branch:        gitlab.Ptr(branch),
			Content:       gitlab.Ptr(string(content)),
			CommitMessage: gitlab.Ptr(message),
		}
		_, resp, err := g.api.RepositoryFiles.UpdateFile(projectID, path, opts, gitlab.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to update file on GitLab: %w", err)
		}
		defer resp.Body.Close()
		return nil
	}

	opts := &gitlab.CreateFileOptions{
		Branch:        gitlab.Ptr(branch),
		Content:       gitlab.Ptr(string(content)),
		CommitMessage: gitlab.Ptr(message),
	}
	_, resp, err := g.api.RepositoryFiles.CreateFile(projectID, path, opts, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create file on GitLab: %w", err)
	}
	defer resp.Body.Close()
	return nil
}

// findBlobID returns the blob ID of path on ref, or "" if the file does not
// exist yet
func (g *GitLabClient) findBlobID(ctx context.Context, projectID, ref, path string) (string, error) {
	opts := &gitlab.GetFileOptions{}
	if ref != "" {
		opts.Ref = gitlab.Ptr(ref)
	}

	file, resp, err := g.api.RepositoryFiles.GetFile(projectID, path, opts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to check existing file on GitLab: %w", err)
	}
	defer resp.Body.Close()

	return file.BlobID, nil
}

// DownloadFile retrieves the content of a file from a GitLab project
func (g *GitLabClient) DownloadFile(ctx context.Context, owner, repo, ref, path string) ([]byte, error) {
	projectID := fmt.Sprintf("%s/%s", owner, repo)

	opts := &gitlab.GetFileOptions{}
	if ref != "" {
		opts.Ref = gitlab.Ptr(ref)
	}

	file, resp, err := g.api.RepositoryFiles.GetFile(projectID, path, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to download file from GitLab: %w", err)
	}
	defer resp.Body.Close()

	// GitLab returns base64 encoded content in the Content field
	// We need to decode it manually
	if file.Content == "" {
		return nil, fmt.Errorf("file content is empty: %s", path)
	}

	decodedContent, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 content: %w", err)
	}

	return decodedContent, nil
}
