package storage

import (
	"context"
	"testing"
)

func TestMemoryContract(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := store.Set(ctx, "key", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if value, ok, _ := store.Get(ctx, "key"); !ok || value != "value" {
		t.Errorf("Get() = %q ok=%v, want %q ok=true", value, ok, "value")
	}

	if err := store.Set(ctx, "key", "updated"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if value, _, _ := store.Get(ctx, "key"); value != "updated" {
		t.Errorf("Get() after overwrite = %q, want %q", value, "updated")
	}

	if err := store.Remove(ctx, "key"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "key"); ok {
		t.Error("Get() found a removed key")
	}
	if err := store.Remove(ctx, "key"); err != nil {
		t.Errorf("Remove() of a missing key error = %v, want nil", err)
	}

	_ = store.Set(ctx, "a", "1")
	_ = store.Set(ctx, "b", "2")
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Error("Get() found a key after Clear()")
	}
}
