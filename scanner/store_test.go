package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func withTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func TestNamedSearchStoreMissingFileIsEmpty(t *testing.T) {
	withTempDir(t)

	store, err := LoadNamedSearchStore("nosuchprocess")
	if err != nil {
		t.Fatalf("LoadNamedSearchStore on missing file: %v", err)
	}
	if len(store.Names()) != 0 {
		t.Errorf("expected empty store, got %d names", len(store.Names()))
	}
}

func TestNamedSearchStoreMalformedFileIsTolerated(t *testing.T) {
	dir := withTempDir(t)

	if err := os.WriteFile(filepath.Join(dir, "broken.searches"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := LoadNamedSearchStore("broken")
	if err == nil {
		t.Fatal("expected ErrStoreCorrupt-wrapped error for malformed file, got nil")
	}
	if len(store.Names()) != 0 {
		t.Errorf("expected empty store despite corruption, got %d names", len(store.Names()))
	}
}

func TestNamedSearchStorePutFlushLoadRoundTrip(t *testing.T) {
	withTempDir(t)

	store, err := LoadNamedSearchStore("game")
	if err != nil {
		t.Fatalf("LoadNamedSearchStore: %v", err)
	}

	store.Put("health", []Address{0x1000, 0x2000, 0x3000})
	if err := store.Flush("game"); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := LoadNamedSearchStore("game")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	addrs, ok := reloaded.Get("health")
	if !ok {
		t.Fatal("expected health entry to survive reload")
	}
	want := []Address{0x1000, 0x2000, 0x3000}
	if len(addrs) != len(want) {
		t.Fatalf("got %d addresses, want %d", len(addrs), len(want))
	}
	for i := range want {
		if addrs[i] != want[i] {
			t.Errorf("addrs[%d] = %s, want %s", i, addrs[i], want[i])
		}
	}
}

func TestNamedSearchStoreDelete(t *testing.T) {
	withTempDir(t)

	store, _ := LoadNamedSearchStore("game")
	store.Put("mana", []Address{0x42})

	if !store.Delete("mana") {
		t.Fatal("expected Delete to report true for existing name")
	}
	if store.Delete("mana") {
		t.Fatal("expected second Delete to report false")
	}
	if _, ok := store.Get("mana"); ok {
		t.Fatal("deleted entry should not be retrievable")
	}
}
