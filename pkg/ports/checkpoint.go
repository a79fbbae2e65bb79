package ports

import (
	"context"

	"github.com/aretw0/eos/pkg/domain"
)

// CheckpointStore persists the latest checkpoint of each sampler chain.
// This allows a long run to be stopped and resumed.
type CheckpointStore interface {
	// Save persists the checkpoint under its ChainID, replacing any earlier one.
	Save(ctx context.Context, cp *domain.Checkpoint) error

	// Load retrieves the checkpoint of a chain.
	// Returns domain.ErrCheckpointNotFound if the chain has none.
	Load(ctx context.Context, chainID string) (*domain.Checkpoint, error)

	// Delete removes the checkpoint of a chain.
	Delete(ctx context.Context, chainID string) error

	// List returns the chains that have a checkpoint.
	List(ctx context.Context) ([]string, error)
}
