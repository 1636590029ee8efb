// Command memprobe is the CLI entrypoint: it resolves a target process
// by name, opens a Scanner around it, and hands off to the interactive
// command shell.
package main

import (
	"bufio"
	"fmt"
	"os"

	"memprobe/discover"
	"memprobe/scanner"
	"memprobe/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: memprobe <process-name>")
		return 1
	}
	name := os.Args[1]

	proc, err := discover.One(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "memprobe: %v\n", err)
		return 1
	}

	scn, err := scanner.New(proc.PID, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "memprobe: %v\n", err)
		return 2
	}
	defer scn.Close()

	fmt.Printf("attached to %s (pid %d), %d eligible regions\n", name, proc.PID, scn.Regions().Len())

	sh := shell.New(bufio.NewReader(os.Stdin), bufio.NewWriter(os.Stdout), scn, name)
	if err := sh.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "memprobe: %v\n", err)
		return 2
	}
	return 0
}
