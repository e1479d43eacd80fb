package store

import (
	"context"

	"github.com/me/gowe/pkg/model"
)

// ListOptions paginates a run listing.
type ListOptions struct {
	Limit  int
	Offset int
}

// Store persists scheduling run history.
type Store interface {
	// SaveRun inserts or replaces a run record.
	SaveRun(ctx context.Context, run *model.Run) error
	// GetRun returns the run with the given id.
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// GetLatestRun returns the most recently created run for a sprint.
	GetLatestRun(ctx context.Context, sprintID string) (*model.Run, error)
	// ListRuns returns runs ordered by creation time, most recent first.
	ListRuns(ctx context.Context, opts ListOptions) ([]*model.Run, int, error)

	// Close releases the underlying connection.
	Close() error
	// Migrate creates or upgrades the schema.
	Migrate(ctx context.Context) error
}
