package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NamedSearchStore persists named result sets to a JSON file named
// "<pname>.searches" in the current directory. It is flushed to disk
// on every mutation.
type NamedSearchStore struct {
	entries map[string][]Address
}

// storeFile returns the on-disk path for a given target name. pname is
// NUL-stripped per spec.md's "<pname> where pname is the operator-
// supplied target name (NULs stripped)".
func storeFile(pname string) string {
	return strings.ReplaceAll(pname, "\x00", "") + ".searches"
}

// LoadNamedSearchStore loads "<pname>.searches" if present. A missing
// file is not an error - it yields an empty store. A malformed file is
// also tolerated: the store starts empty and ErrStoreCorrupt is
// returned alongside it so the caller can warn without aborting.
func LoadNamedSearchStore(pname string) (*NamedSearchStore, error) {
	store := &NamedSearchStore{entries: make(map[string][]Address)}

	data, err := os.ReadFile(storeFile(pname))
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return store, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	if len(data) == 0 {
		return store, nil
	}

	var raw map[string][]uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return store, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	for name, addrs := range raw {
		list := make([]Address, len(addrs))
		for i, a := range addrs {
			list[i] = Address(a)
		}
		store.entries[name] = list
	}

	return store, nil
}

// Put stores (overwriting any prior value) the address list under name.
func (s *NamedSearchStore) Put(name string, addrs []Address) {
	s.entries[name] = append([]Address(nil), addrs...)
}

// Get returns the address list stored under name.
func (s *NamedSearchStore) Get(name string) ([]Address, bool) {
	addrs, ok := s.entries[name]
	return addrs, ok
}

// Delete removes name from the store, reporting whether it existed.
func (s *NamedSearchStore) Delete(name string) bool {
	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	return true
}

// Names returns every stored name.
func (s *NamedSearchStore) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Flush writes the store to "<pname>.searches" via a temp-file-then-
// rename, so a crash mid-write never leaves a half-written store behind.
func (s *NamedSearchStore) Flush(pname string) error {
	raw := make(map[string][]uint64, len(s.entries))
	for name, addrs := range s.entries {
		list := make([]uint64, len(addrs))
		for i, a := range addrs {
			list[i] = uint64(a)
		}
		raw[name] = list
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("scanner: marshal named search store: %w", err)
	}

	target := storeFile(pname)
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".searches-tmp-*")
	if err != nil {
		return fmt.Errorf("scanner: create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("scanner: write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("scanner: close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("scanner: rename temp store file: %w", err)
	}
	return nil
}
