//go:build linux

package shell

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"

	"memprobe/scanner"
)

func testShell(t *testing.T, commands string) string {
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

	scn, err := scanner.New(os.Getpid(), "shelltest")
	if err != nil {
		t.Fatalf("scanner.New: %v", err)
	}
	t.Cleanup(func() { scn.Close() })

	var out bytes.Buffer
	sh := New(bufio.NewReader(strings.NewReader(commands)), bufio.NewWriter(&out), scn, "shelltest")
	if err := sh.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestShellHelpListsCommands(t *testing.T) {
	out := testShell(t, "help\nexit\n")
	for _, name := range []string{"search", "read", "write", "save", "restore", "snapshot", "exit"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing command %q:\n%s", name, out)
		}
	}
}

func TestShellUnknownCommandReportsError(t *testing.T) {
	out := testShell(t, "bogus\nexit\n")
	if !strings.Contains(out, "unknown command") {
		t.Errorf("expected an unknown-command message, got:\n%s", out)
	}
}

func TestShellPrintModulesListsRegions(t *testing.T) {
	out := testShell(t, "print_modules\nexit\n")
	if strings.Count(out, "\n") < 2 {
		t.Errorf("expected at least two region lines, got:\n%s", out)
	}
}

func TestShellClearResults(t *testing.T) {
	out := testShell(t, "clear\nexit\n")
	if !strings.Contains(out, "results cleared") {
		t.Errorf("expected clear confirmation, got:\n%s", out)
	}
}

func TestShellSnapshotThenChanged(t *testing.T) {
	out := testShell(t, "snapshot\nchanged\nexit\n")
	if !strings.Contains(out, "snapshot captured") {
		t.Errorf("expected snapshot confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "changed\n") {
		t.Errorf("expected a changed-count line, got:\n%s", out)
	}
}
