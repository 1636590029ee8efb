// Package scanner implements the process memory scanner: region map
// parsing, the memory channel, typed value codec, pattern search,
// snapshot differencing, and named result persistence.
package scanner

import (
	"errors"
	"fmt"
)

// Address is an absolute 64-bit virtual address in the target process.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

var (
	// ErrNoSuchProcess is returned when /proc/<pid>/maps or
	// /proc/<pid>/mem does not exist. The scanner does not read
	// /proc/<pid>/cmdline.
	ErrNoSuchProcess = errors.New("scanner: no such process")

	// ErrPermission is returned when opening /proc/<pid>/mem or
	// /proc/<pid>/maps is denied.
	ErrPermission = errors.New("scanner: permission denied")

	// ErrAddressUnmapped names a seek/read/write at an address outside
	// the target's currently mapped regions. Channel does not return it:
	// reads and writes at unmapped addresses fail with ErrReadFailed or
	// ErrWriteFailed.
	ErrAddressUnmapped = errors.New("scanner: address not mapped")

	// ErrReadFailed is returned when positioned I/O did not return the
	// requested byte count.
	ErrReadFailed = errors.New("scanner: read failed")

	// ErrWriteFailed is returned when positioned I/O did not write the
	// requested byte count.
	ErrWriteFailed = errors.New("scanner: write failed")

	// ErrParseValue is returned when an operator-supplied literal does
	// not parse as the requested scalar kind.
	ErrParseValue = errors.New("scanner: value does not parse for kind")

	// ErrStoreCorrupt is returned (as a wrapped diagnostic, never
	// fatally) when a named-search state file is not valid JSON.
	ErrStoreCorrupt = errors.New("scanner: named search store is corrupt")

	// ErrEmptyPattern is returned by Search when called with a
	// zero-length pattern.
	ErrEmptyPattern = errors.New("scanner: empty search pattern")

	// ErrNoSnapshot is returned (informationally, never fatally) from
	// SnapshotDiff(Changed|Unchanged) when no prior snapshot exists.
	ErrNoSnapshot = errors.New("scanner: no prior snapshot")

	// ErrEmptyName is returned by Save for an empty name.
	ErrEmptyName = errors.New("scanner: name must not be empty")
)

// DiffMode selects the snapshot differencing behavior of SnapshotDiff.
type DiffMode int

const (
	// First captures a snapshot without comparing it to anything.
	First DiffMode = iota
	// Changed keeps/collects addresses whose byte value differs from
	// the previous snapshot.
	Changed
	// Unchanged keeps/collects addresses whose byte value is identical
	// to the previous snapshot.
	Unchanged
)

func (m DiffMode) String() string {
	switch m {
	case First:
		return "first"
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}
