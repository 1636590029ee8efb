//go:build linux

// Package discover finds a target process by name via a trivial scan of
// /proc, turning an operator-supplied name into a pid for the Scanner
// and the rest of the command-line tool to act on.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no running process matches the requested
// name.
var ErrNotFound = errors.New("discover: no matching process")

// Process is one match: a pid and the name it matched on.
type Process struct {
	PID  int
	Name string
}

// ByName scans /proc for every process whose /proc/<pid>/cmdline first
// token (its NUL-separated argv[0], basename-stripped) equals name.
// Matching is case-sensitive.
func ByName(name string) ([]Process, error) {
	if name == "" {
		return nil, fmt.Errorf("discover: empty name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("discover: read /proc: %w", err)
	}

	var matches []Process

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue
		}

		argv0 := cmdlineFirstToken(pid)
		if argv0 == "" {
			continue
		}
		if argv0 == name || filepath.Base(argv0) == name {
			matches = append(matches, Process{PID: pid, Name: filepath.Base(argv0)})
		}
	}

	return matches, nil
}

// One returns the lowest-pid match for name, or ErrNotFound if there is
// none - a deterministic pick among several candidates.
func One(name string) (Process, error) {
	matches, err := ByName(name)
	if err != nil {
		return Process{}, err
	}
	if len(matches) == 0 {
		return Process{}, ErrNotFound
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.PID < best.PID {
			best = m
		}
	}
	return best, nil
}

// cmdlineFirstToken reads /proc/<pid>/cmdline and returns its first
// NUL-separated token, the process's argv[0]. It returns "" on any read
// failure (zombie, permission, already-exited process) rather than
// erroring - the caller simply treats the pid as unmatchable.
func cmdlineFirstToken(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	if err != nil || len(data) == 0 {
		return ""
	}
	if i := strings.IndexByte(string(data), 0); i >= 0 {
		return string(data[:i])
	}
	return strings.TrimRight(string(data), "\x00")
}
