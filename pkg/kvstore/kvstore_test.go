package kvstore

import (
	"context"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, ok, err := store.Get(ctx, "active_order"); err != nil || ok {
		t.Fatalf("expected miss on empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "active_order", `{"ticket_id":"t1"}`); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}

	value, ok, err := store.Get(ctx, "active_order")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if value != `{"ticket_id":"t1"}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Set(ctx, "active_order", `{"ticket_id":"t2"}`); err != nil {
		t.Fatalf("unexpected overwrite error: %v", err)
	}
	value, _, _ = store.Get(ctx, "active_order")
	if value != `{"ticket_id":"t2"}` {
		t.Fatalf("overwrite not applied, got %q", value)
	}

	if err := store.Remove(ctx, "active_order"); err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "active_order"); ok {
		t.Fatal("expected miss after remove")
	}

	// removing an absent key is a no-op
	if err := store.Remove(ctx, "active_order"); err != nil {
		t.Fatalf("remove of absent key should not error: %v", err)
	}
}
