package store

import (
	"path/filepath"
	"testing"
)

func TestNewSQLiteKV(t *testing.T) {
	// Use in-memory database
	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("missing"); ok {
		t.Error("Get on empty store should report absence")
	}

	if err := kv.Set("region-1", `{"width":200}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := kv.Get("region-1")
	if !ok || v != `{"width":200}` {
		t.Errorf("Get = %q %v, want stored value", v, ok)
	}
}

func TestSQLiteKVOverwriteIsLastWriteWins(t *testing.T) {
	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	defer kv.Close()

	for _, v := range []string{"a", "b", "c"} {
		if err := kv.Set("k", v); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	got, _ := kv.Get("k")
	if got != "c" {
		t.Errorf("Get = %q, want last write", got)
	}
}

func TestSQLiteKVDelete(t *testing.T) {
	kv, err := NewSQLiteKV(":memory:")
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	defer kv.Close()

	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := kv.Get("k"); ok {
		t.Error("key should be gone after delete")
	}
	// Deleting a missing key is not an error.
	if err := kv.Delete("k"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "regions.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	if err := kv.Set("hero-banner", "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	kv.Close()

	kv2, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("Failed to reopen sqlite store: %v", err)
	}
	defer kv2.Close()
	v, ok := kv2.Get("hero-banner")
	if !ok || v != "persisted" {
		t.Errorf("Get after reopen = %q %v, want persisted value", v, ok)
	}
}
