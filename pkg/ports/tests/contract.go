package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/ports"
)

// CheckpointStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.CheckpointStore.
func CheckpointStoreContractTest(t *testing.T, store ports.CheckpointStore) {
	t.Helper()

	ctx := context.Background()
	chainID := "contract-chain-" + time.Now().Format("20060102150405")

	newCheckpoint := func(id string, step int) *domain.Checkpoint {
		return &domain.Checkpoint{
			ChainID:    id,
			Step:       step,
			Names:      []string{"CKM::A", "CKM::lambda"},
			Values:     []float64{0.826, 0.225},
			LogDensity: -1.25,
			Accepted:   step / 2,
			CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}

	// 1. Save and Load
	t.Run("Save_Load", func(t *testing.T) {
		cp := newCheckpoint(chainID, 100)
		if err := store.Save(ctx, cp); err != nil {
			t.Fatalf("unexpected error saving checkpoint: %v", err)
		}

		loaded, err := store.Load(ctx, chainID)
		if err != nil {
			t.Fatalf("unexpected error loading checkpoint: %v", err)
		}
		if loaded.Step != 100 || loaded.Accepted != 50 || loaded.LogDensity != -1.25 {
			t.Errorf("checkpoint mismatch: got %+v", loaded)
		}
		if len(loaded.Values) != 2 || loaded.Values[0] != 0.826 || loaded.Names[1] != "CKM::lambda" {
			t.Errorf("point mismatch: got %v %v", loaded.Names, loaded.Values)
		}
		if !loaded.CreatedAt.Equal(cp.CreatedAt) {
			t.Errorf("timestamp mismatch: got %v, want %v", loaded.CreatedAt, cp.CreatedAt)
		}
	})

	// 2. Save replaces, and stored data is isolated from the caller
	t.Run("Save_Replaces", func(t *testing.T) {
		cp := newCheckpoint(chainID, 200)
		if err := store.Save(ctx, cp); err != nil {
			t.Fatal(err)
		}
		cp.Values[0] = 99

		loaded, err := store.Load(ctx, chainID)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Step != 200 {
			t.Errorf("expected step 200, got %d", loaded.Step)
		}
		if loaded.Values[0] != 0.826 {
			t.Errorf("store shares memory with the caller: got %g", loaded.Values[0])
		}
	})

	// 3. Load (NotFound)
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+chainID)
		if !errors.Is(err, domain.ErrCheckpointNotFound) {
			t.Errorf("expected ErrCheckpointNotFound, got %v", err)
		}
	})

	// 4. List
	t.Run("List", func(t *testing.T) {
		id1, id2 := chainID+"-1", chainID+"-2"
		_ = store.Save(ctx, newCheckpoint(id1, 1))
		_ = store.Save(ctx, newCheckpoint(id2, 1))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		chains, err := store.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing chains: %v", err)
		}
		lookup := make(map[string]bool)
		for _, id := range chains {
			lookup[id] = true
		}
		for _, id := range []string{id1, id2} {
			if !lookup[id] {
				t.Errorf("chain %s missing from list", id)
			}
		}
	})

	// 5. Delete
	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, chainID); err != nil {
			t.Fatalf("unexpected error deleting checkpoint: %v", err)
		}
		_, err := store.Load(ctx, chainID)
		if !errors.Is(err, domain.ErrCheckpointNotFound) {
			t.Errorf("Load after Delete should return ErrCheckpointNotFound, got %v", err)
		}
	})
}
