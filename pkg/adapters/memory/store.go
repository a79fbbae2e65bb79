package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/eos/pkg/domain"
)

// Store implements ports.CheckpointStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Checkpoint
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Checkpoint),
	}
}

// Save persists a copy of the checkpoint in memory.
func (s *Store) Save(ctx context.Context, cp *domain.Checkpoint) error {
	copied := cp.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[cp.ChainID] = copied
	return nil
}

// Load retrieves the checkpoint from memory.
func (s *Store) Load(ctx context.Context, chainID string) (*domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.data[chainID]
	if !ok {
		return nil, domain.ErrCheckpointNotFound
	}

	// Copy on read so the caller can't mutate stored state through the pointer
	return cp.Clone(), nil
}

// Delete removes the checkpoint.
func (s *Store) Delete(ctx context.Context, chainID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, chainID)
	return nil
}

// List returns the chains with a checkpoint, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chains := make([]string, 0, len(s.data))
	for id := range s.data {
		chains = append(chains, id)
	}
	sort.Strings(chains)
	return chains, nil
}
