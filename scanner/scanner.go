//go:build linux

package scanner

import (
	"bytes"
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// result pairs a candidate Address with the last byte observed there,
// so a change/no-change differ cycle can compare against the prior
// observation without a second read.
type result struct {
	addr     Address
	lastByte byte
}

// Scanner is the core memory inspector: it exclusively owns the Memory
// Channel, RegionSet, current result set, latest Snapshot, and
// NamedSearchStore for one target process.
type Scanner struct {
	pid     int
	name    string
	channel *Channel
	regions RegionSet
	results []result
	// snapshot maps a region's start address to its full captured
	// bytes. Only one generation is ever held at a time.
	snapshot map[Address][]byte
	store    *NamedSearchStore
	log      *logger.Logger
}

// New opens a Scanner over the given pid, parsing its memory map and
// opening its memory channel. name is the operator-supplied target name
// used for the Named Result Store's state file and has no bearing on
// process identity.
func New(pid int, name string) (*Scanner, error) {
	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("scanner-%d", pid)))

	regions, failures, err := ReadProcessMaps(pid)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		log.Debugln("maps: skipping unparsable line", f.LineNumber, ":", f.Line)
	}

	channel, err := OpenChannel(pid, log)
	if err != nil {
		return nil, err
	}

	store, err := LoadNamedSearchStore(name)
	if err != nil {
		log.Warn("named search store corrupt, starting empty:", err)
	}

	log.Infoln("scanner opened,", regions.Len(), "eligible regions")

	return &Scanner{
		pid:     pid,
		name:    name,
		channel: channel,
		regions: regions,
		store:   store,
		log:     log,
	}, nil
}

// Close releases the underlying memory channel.
func (s *Scanner) Close() error {
	return s.channel.Close()
}

// Regions returns the eligible RegionSet this Scanner was constructed
// with. The region map is built once in New and never refreshed.
func (s *Scanner) Regions() RegionSet {
	return s.regions
}

// Results returns the addresses of the current candidate set, in order.
func (s *Scanner) Results() []Address {
	out := make([]Address, len(s.results))
	for i, r := range s.results {
		out[i] = r.addr
	}
	return out
}

// ClearResults empties the candidate set and its parallel last-values.
func (s *Scanner) ClearResults() {
	s.results = nil
}

// Search performs a first-pass scan (when the result set is empty) or a
// refinement (when it is not).
func (s *Scanner) Search(pattern []byte) (int, error) {
	if len(pattern) == 0 {
		return 0, ErrEmptyPattern
	}

	if len(s.results) == 0 {
		return s.searchFirstPass(pattern)
	}
	return s.searchRefine(pattern)
}

// searchFirstPass scans every eligible region for non-overlapping,
// leftmost-first literal occurrences of pattern.
func (s *Scanner) searchFirstPass(pattern []byte) (int, error) {
	var results []result

	for _, region := range s.regions.Regions() {
		data, err := s.channel.FillRegion(region)
		if err != nil {
			s.log.Debugln("search: skipping region", region.Name, "at", region.Start, ":", err)
			continue
		}

		for _, offset := range findNonOverlapping(data, pattern) {
			addr := region.Start + Address(offset)
			results = append(results, result{addr: addr, lastByte: data[offset]})
		}
	}

	s.results = results
	s.log.Infoln("search: first pass found", len(results), "matches")
	return len(results), nil
}

// searchRefine keeps only existing candidates whose current bytes still
// equal pattern; a failed read drops the candidate silently, since the
// target may have unmapped that region since the prior pass.
func (s *Scanner) searchRefine(pattern []byte) (int, error) {
	var kept []result

	for _, r := range s.results {
		data, err := s.read(r.addr, len(pattern))
		if err != nil {
			continue
		}
		if bytes.Equal(data, pattern) {
			kept = append(kept, result{addr: r.addr, lastByte: data[0]})
		}
	}

	s.results = kept
	s.log.Infoln("search: refined to", len(kept), "matches")
	return len(kept), nil
}

// findNonOverlapping returns every leftmost-first, non-overlapping
// offset at which pattern occurs in data. Literal byte comparison only:
// no wildcards, no case folding.
func findNonOverlapping(data, pattern []byte) []int {
	var offsets []int
	pos := 0
	for pos <= len(data)-len(pattern) {
		idx := bytes.Index(data[pos:], pattern)
		if idx < 0 {
			break
		}
		abs := pos + idx
		offsets = append(offsets, abs)
		pos = abs + len(pattern)
	}
	return offsets
}

// Read performs a raw positioned read of len bytes at addr.
func (s *Scanner) Read(addr Address, length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("scanner: read length must be positive")
	}
	return s.read(addr, length)
}

func (s *Scanner) read(addr Address, length int) ([]byte, error) {
	buf := make([]byte, length)
	if err := s.channel.ReadExact(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Write performs a raw positioned write at addr. Writes are unconditional
// and immediate; there is no transaction, undo, or checksum.
func (s *Scanner) Write(addr Address, data []byte) error {
	return s.channel.WriteExact(addr, data)
}

// ReadTyped reads and decodes a single scalar of the given Kind.
func (s *Scanner) ReadTyped(k Kind, addr Address) (string, error) {
	data, err := s.read(addr, k.Size())
	if err != nil {
		return "", err
	}
	return FromBytes(k, data)
}

// WriteTyped encodes text as the given Kind and writes it at addr.
func (s *Scanner) WriteTyped(k Kind, addr Address, text string) error {
	data, err := ToBytes(k, text)
	if err != nil {
		return err
	}
	return s.Write(addr, data)
}

// ReadPointerChain walks offsets[:len(offsets)-1] as pointer
// dereferences from base, then reads size bytes at
// (final-pointer + offsets[last]). This is a thin convenience for
// following a few already-known hops before a typed read or raw dump -
// it does not perform any pointer discovery or structure resolution.
func (s *Scanner) ReadPointerChain(base Address, size int, offsets ...int) ([]byte, error) {
	if len(offsets) == 0 {
		return s.Read(base, size)
	}

	current := base
	for i := 0; i < len(offsets)-1; i++ {
		addr := current + Address(offsets[i])
		raw, err := s.read(addr, 8)
		if err != nil {
			return nil, fmt.Errorf("scanner: pointer chain step %d at %s: %w", i, addr, err)
		}
		ptr := Address(leU64(raw))
		if ptr == 0 {
			return nil, fmt.Errorf("scanner: pointer chain step %d at %s: null pointer", i, addr)
		}
		current = ptr
	}

	final := current + Address(offsets[len(offsets)-1])
	return s.Read(final, size)
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// SnapshotDiff captures a fresh full-memory snapshot (one region's bytes
// at a time) and, depending on mode, reconciles it against the previous
// generation:
//
//   - First: just captures and stores the snapshot; the result set is
//     untouched.
//   - Changed: with an empty result set, the result set becomes every
//     address whose byte differs from the previous snapshot; with a
//     non-empty one, each existing candidate is kept only if its current
//     byte differs from its last observed byte.
//   - Unchanged: the same, keeping bytes that are identical instead.
//
// Only one snapshot generation is ever held in memory: the previous
// generation is used for comparison and then discarded.
func (s *Scanner) SnapshotDiff(mode DiffMode) (int, error) {
	if mode != First && s.snapshot == nil {
		return 0, ErrNoSnapshot
	}

	previous := s.snapshot
	next := make(map[Address][]byte, s.regions.Len())

	for _, region := range s.regions.Regions() {
		data, err := s.channel.FillRegion(region)
		if err != nil {
			s.log.Debugln("snapshot: skipping region", region.Name, "at", region.Start, ":", err)
			continue
		}
		next[region.Start] = data
	}

	s.snapshot = next

	if mode == First {
		s.log.Infoln("snapshot: captured", len(next), "regions")
		return 0, nil
	}

	var results []result
	if len(s.results) == 0 {
		// No existing candidates: diff every byte of every region present
		// in both generations, in region-map order then ascending offset,
		// mirroring searchFirstPass's result ordering.
		for _, region := range s.regions.Regions() {
			data, ok := next[region.Start]
			if !ok {
				continue
			}
			old, ok := previous[region.Start]
			if !ok {
				continue
			}
			limit := len(data)
			if len(old) < limit {
				limit = len(old)
			}
			for i := 0; i < limit; i++ {
				same := data[i] == old[i]
				if (mode == Changed && !same) || (mode == Unchanged && same) {
					results = append(results, result{addr: region.Start + Address(i), lastByte: data[i]})
				}
			}
		}
	} else {
		// Refinement: only test the bytes we already hold a candidate
		// for, comparing against each candidate's last observed value.
		for _, r := range s.results {
			curr, err := s.read(r.addr, 1)
			if err != nil {
				continue
			}
			same := curr[0] == r.lastByte
			if (mode == Changed && !same) || (mode == Unchanged && same) {
				results = append(results, result{addr: r.addr, lastByte: curr[0]})
			}
		}
	}

	s.results = results
	s.log.Infoln("snapshot:", mode, "diff found", len(results), "addresses")
	return len(results), nil
}

// Save persists the current result set under name, then clears it.
func (s *Scanner) Save(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	s.store.Put(name, s.Results())
	s.ClearResults()
	return s.store.Flush(s.name)
}

// Restore replaces the current result set with the one saved under
// name. It returns false (leaving the current set untouched) if no such
// name exists.
func (s *Scanner) Restore(name string) (bool, error) {
	addrs, ok := s.store.Get(name)
	if !ok {
		return false, nil
	}
	results := make([]result, len(addrs))
	for i, a := range addrs {
		results[i] = result{addr: a}
	}
	s.results = results
	return true, nil
}

// Delete removes name from the store, flushing the change to disk.
func (s *Scanner) Delete(name string) (bool, error) {
	ok := s.store.Delete(name)
	if !ok {
		return false, nil
	}
	return true, s.store.Flush(s.name)
}

// Decorate renders addr decorated with its containing region's name and
// offset.
func (s *Scanner) Decorate(addr Address) string {
	return Decorate(s.regions, addr)
}
