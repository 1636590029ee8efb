// Package shell is the line-oriented command interpreter an operator
// drives the Scanner with: one command per line, dispatched by name off
// a Cmd table in the style of a classic interactive prompt.
package shell

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"memprobe/render"
	"memprobe/scanner"
)

// Cmd is one named command: a short description for help text and the
// function that runs it.
type Cmd struct {
	description string
	run         func(args []string) error
}

// Shell drives a Scanner from line-oriented input until "exit" or EOF.
type Shell struct {
	r    *bufio.Reader
	w    *bufio.Writer
	scn  *scanner.Scanner
	name string
	cmds map[string]Cmd
	ps1  string
	quit bool
}

// New builds a Shell bound to an already-open Scanner. name is the
// target process name the scanner was constructed with, used only for
// the prompt.
func New(r *bufio.Reader, w *bufio.Writer, scn *scanner.Scanner, name string) *Shell {
	s := &Shell{r: r, w: w, scn: scn, name: name, ps1: fmt.Sprintf("%s> ", name)}
	s.cmds = map[string]Cmd{
		"search":         {"search(kind, text) - first pass or refine", s.cmdSearch},
		"read":           {"read(kind, addr) - typed read at address", s.cmdRead},
		"write":          {"write(kind, addr, text) - typed write at address", s.cmdWrite},
		"clear":          {"clear - empty the current result set", s.cmdClear},
		"save":           {"save name - persist results under name", s.cmdSave},
		"restore":        {"restore name - load results saved under name", s.cmdRestore},
		"delete":         {"delete name - remove a saved name", s.cmdDelete},
		"print_results":  {"print_results - list current addresses", s.cmdPrintResults},
		"print_modules":  {"print_modules - list eligible regions", s.cmdPrintModules},
		"snapshot":       {"snapshot - capture a first snapshot", s.cmdSnapshot},
		"changed":        {"changed - diff against the last snapshot, keep changed", s.cmdChanged},
		"unchanged":      {"unchanged - diff against the last snapshot, keep unchanged", s.cmdUnchanged},
		"hexdump":        {"hexdump addr len - colorized dump of a range", s.cmdHexdump},
		"bitmap":         {"bitmap addr len file.png - render a range as an image", s.cmdBitmap},
		"help":           {"help - list commands", s.cmdHelp},
		"exit":           {"exit - quit the shell", s.cmdExit},
	}
	return s
}

func (s *Shell) output(format string, a ...interface{}) {
	fmt.Fprintf(s.w, format, a...)
	s.w.Flush()
}

// Run reads and dispatches commands until "exit" or the reader is
// exhausted.
func (s *Shell) Run() error {
	for !s.quit {
		s.output("%s", s.ps1)
		line, err := s.r.ReadString('\n')
		if err != nil {
			s.output("\n")
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, ok := s.cmds[fields[0]]
		if !ok {
			s.output("unknown command %q\n", fields[0])
			continue
		}
		if err := cmd.run(fields[1:]); err != nil {
			s.output("error: %v\n", err)
		}
	}
	return nil
}

func (s *Shell) cmdHelp(args []string) error {
	s.output("available commands:\n")
	for _, name := range sortedNames(s.cmds) {
		s.output("  %-14s %s\n", name, s.cmds[name].description)
	}
	return nil
}

func sortedNames(cmds map[string]Cmd) []string {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func (s *Shell) cmdSearch(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: search kind text")
	}
	kind, ok := scanner.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[0])
	}
	pattern, err := scanner.ToBytes(kind, args[1])
	if err != nil {
		return err
	}
	n, err := s.scn.Search(pattern)
	if err != nil {
		return err
	}
	s.output("%d matches\n", n)
	return nil
}

func (s *Shell) cmdRead(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: read kind addr")
	}
	kind, ok := scanner.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[0])
	}
	addr, err := parseAddr(args[1])
	if err != nil {
		return err
	}
	text, err := s.scn.ReadTyped(kind, addr)
	if err != nil {
		return err
	}
	s.output("%s = %s\n", s.scn.Decorate(addr), text)
	return nil
}

func (s *Shell) cmdWrite(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: write kind addr text")
	}
	kind, ok := scanner.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q", args[0])
	}
	addr, err := parseAddr(args[1])
	if err != nil {
		return err
	}
	if err := s.scn.WriteTyped(kind, addr, args[2]); err != nil {
		return err
	}
	s.output("wrote %s to %s\n", args[2], s.scn.Decorate(addr))
	return nil
}

func (s *Shell) cmdClear(args []string) error {
	s.scn.ClearResults()
	s.output("results cleared\n")
	return nil
}

func (s *Shell) cmdSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: save name")
	}
	if err := s.scn.Save(args[0]); err != nil {
		return err
	}
	s.output("saved as %q\n", args[0])
	return nil
}

func (s *Shell) cmdRestore(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: restore name")
	}
	ok, err := s.scn.Restore(args[0])
	if err != nil {
		return err
	}
	if !ok {
		s.output("no such name: %q\n", args[0])
		return nil
	}
	s.output("restored %q\n", args[0])
	return nil
}

func (s *Shell) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete name")
	}
	ok, err := s.scn.Delete(args[0])
	if err != nil {
		return err
	}
	if !ok {
		s.output("no such name: %q\n", args[0])
		return nil
	}
	s.output("deleted %q\n", args[0])
	return nil
}

func (s *Shell) cmdPrintResults(args []string) error {
	for _, addr := range s.scn.Results() {
		s.output("%s\n", s.scn.Decorate(addr))
	}
	return nil
}

func (s *Shell) cmdPrintModules(args []string) error {
	for _, r := range s.scn.Regions().Regions() {
		s.output("%s-%s %s\n", r.Start, r.End, r.Name)
	}
	return nil
}

func (s *Shell) cmdSnapshot(args []string) error {
	if _, err := s.scn.SnapshotDiff(scanner.First); err != nil {
		return err
	}
	s.output("snapshot captured\n")
	return nil
}

func (s *Shell) cmdChanged(args []string) error {
	n, err := s.scn.SnapshotDiff(scanner.Changed)
	if err != nil {
		return err
	}
	s.output("%d changed\n", n)
	return nil
}

func (s *Shell) cmdUnchanged(args []string) error {
	n, err := s.scn.SnapshotDiff(scanner.Unchanged)
	if err != nil {
		return err
	}
	s.output("%d unchanged\n", n)
	return nil
}

func (s *Shell) cmdHexdump(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: hexdump addr len")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(args[1])
	if err != nil || length <= 0 {
		return fmt.Errorf("invalid length %q", args[1])
	}
	data, err := s.scn.Read(addr, length)
	if err != nil {
		return err
	}

	regions := s.scn.Regions()
	dump := render.NewHexDump().EnablePointerChecking(func(ptr uint64) bool {
		_, ok := regions.Find(scanner.Address(ptr))
		return ok
	})
	dump.Options.StartOffset = uint64(addr)
	s.output("%s", dump.Dump(data))
	return nil
}

func (s *Shell) cmdBitmap(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: bitmap addr len file.png")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	length, err := strconv.Atoi(args[1])
	if err != nil || length <= 0 {
		return fmt.Errorf("invalid length %q", args[1])
	}
	data, err := s.scn.Read(addr, length)
	if err != nil {
		return err
	}

	f, err := os.Create(args[2])
	if err != nil {
		return fmt.Errorf("shell: create %s: %w", args[2], err)
	}
	defer f.Close()

	if err := render.WritePNG(f, data); err != nil {
		return err
	}
	s.output("wrote %s\n", args[2])
	return nil
}

func (s *Shell) cmdExit(args []string) error {
	s.quit = true
	return nil
}

func parseAddr(text string) (scanner.Address, error) {
	text = strings.TrimPrefix(text, "0x")
	v, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", text)
	}
	return scanner.Address(v), nil
}
