package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// RecordStoreContractTest is a reusable suite verifying that an adapter
// complies with ports.RecordStore.
func RecordStoreContractTest(t *testing.T, store ports.RecordStore) {
	t.Helper()
	ctx := context.Background()

	rec := &domain.Record{
		TreeName: "contract-tree",
		Path:     []string{"n1", "n2"},
		Status:   domain.StatusSuccess,
		FinalValues: map[string]any{
			"summary": "all good",
		},
	}

	t.Run("Save_Load", func(t *testing.T) {
		if err := store.Save(ctx, "call-1", rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "call-1")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Status != domain.StatusSuccess {
			t.Errorf("status mismatch: got %q", got.Status)
		}
		if len(got.Path) != 2 || got.Path[0] != "n1" {
			t.Errorf("path mismatch: got %v", got.Path)
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-call")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range ids {
			if id == "call-1" {
				found = true
			}
		}
		if !found {
			t.Errorf("call-1 missing from list: %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "call-1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := store.Load(ctx, "call-1")
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
		}
	})
}
