package project

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a project id has no stored project.
var ErrNotFound = errors.New("project not found")

// Summary is the lightweight listing view of a stored project.
type Summary struct {
	ID        string
	Name      string
	Charts    int
	UpdatedAt time.Time
}

// Store persists projects. Implementations must treat projects as opaque
// documents; callers own validation.
type Store interface {
	// Get loads a project by id, returning ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Project, error)
	// Save inserts or replaces a project.
	Save(ctx context.Context, p *Project) error
	// List returns summaries of all stored projects, most recently
	// updated first.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes a project; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
