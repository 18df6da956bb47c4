package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"dpwrk/internal/platform/kv"
)

func TestSQLiteStoreRoundTripAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "nested", "kv.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%t err=%v", ok, err)
	}
	if err := store.SetMany(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := store.SetMany(ctx, map[string]string{"a": "3"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := store.Get(ctx, "a")
	if err != nil || !ok || value != "3" {
		t.Fatalf("expected a=3, got %q ok=%t err=%v", value, ok, err)
	}
	if err := store.Delete(ctx, "a", "b", "never-set"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "b"); ok {
		t.Fatalf("expected b to be deleted")
	}
}

func TestSQLiteStoreReopenKeepsValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")
	first, err := kv.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	if err := first.SetMany(ctx, map[string]string{"TimerIsActive": "true"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := kv.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	value, ok, err := second.Get(ctx, "TimerIsActive")
	if err != nil || !ok || value != "true" {
		t.Fatalf("expected persisted value, got %q ok=%t err=%v", value, ok, err)
	}
}
