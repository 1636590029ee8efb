//go:build linux

package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOneFindsSelfByArgv0Basename(t *testing.T) {
	name := filepath.Base(os.Args[0])

	proc, err := One(name)
	if err != nil {
		t.Fatalf("One(%q): %v", name, err)
	}
	if proc.PID != os.Getpid() {
		t.Errorf("One(%q) = pid %d, want %d (ourselves, the lowest-pid match is required to be deterministic)", name, proc.PID, os.Getpid())
	}
}

func TestByNameRejectsEmptyName(t *testing.T) {
	if _, err := ByName(""); err == nil {
		t.Error("ByName(\"\") expected an error")
	}
}

func TestOneReportsNotFoundForBogusName(t *testing.T) {
	_, err := One("definitely-not-a-running-process-name-xyz")
	if err != ErrNotFound {
		t.Errorf("One(bogus) error = %v, want ErrNotFound", err)
	}
}
