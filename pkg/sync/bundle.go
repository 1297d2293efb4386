package sync

import (
	"context"
	"fmt"

	"github.com/dashforge/dashforge/pkg/project"
)

// PushProject uploads a project bundle to the repository. The bundle lands
// at project.BundleFilename on the given branch; unchanged bundles are
// skipped by the underlying client.
func PushProject(ctx context.Context, client Client, owner, repo, branch string, p *project.Project) error {
	content, err := project.EncodeBundle(p)
	if err != nil {
		return fmt.Errorf("failed to encode project bundle: %w", err)
	}

	message := fmt.Sprintf("Update project %s", p.Name)
	return client.UploadFile(ctx, owner, repo, branch, project.BundleFilename, content, message)
}

// PullProject downloads and decodes a project bundle from the repository
func PullProject(ctx context.Context, client Client, owner, repo, ref string) (*project.Project, error) {
	content, err := client.DownloadFile(ctx, owner, repo, ref, project.BundleFilename)
	if err != nil {
		return nil, err
	}

	p, err := project.DecodeBundle(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode project bundle: %w", err)
	}
	return p, nil
}
