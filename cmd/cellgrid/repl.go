package main

import (
	"fmt"
	"io"
	"strings"

	"cellgrid/position"
	"cellgrid/sheet"
)

const (
	prompt     = "cellgrid> "
	promptHelp = "Commands: set POS TEXT | get POS | clear POS | print | texts | :help | :quit\n"
)

type lineSource interface {
	readLine(prompt string) (string, bool)
}

// runREPL starts an interactive session over a single in-memory sheet. It
// mirrors the teacher's repl/repl.go dispatch loop: pick a tty reader when
// stdin is a terminal, fall back to a plain scanner otherwise, and treat a
// leading ":" as a REPL-level command distinct from sheet edits.
func runREPL(in io.Reader, out io.Writer) int {
	sh := sheet.New()

	var src lineSource
	if tty, ok := newTTYInput(in, out); ok {
		src = tty
		defer tty.Close()
	} else {
		src = newLineReader(in, out)
	}

	fmt.Fprint(out, "cellgrid interactive shell\n")
	fmt.Fprint(out, promptHelp)

	for {
		line, ok := src.readLine(prompt)
		if !ok {
			return 0
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if handleREPLCommand(line, out) {
				return 0
			}
			continue
		}
		if err := dispatchSheetCommand(sh, line, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func handleREPLCommand(line string, out io.Writer) (quit bool) {
	switch line {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(out, promptHelp)
	default:
		fmt.Fprintf(out, "unknown command: %s\n", line)
	}
	return false
}

func dispatchSheetCommand(sh *sheet.Sheet, line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "set":
		if len(fields) < 3 {
			return fmt.Errorf("usage: set POS TEXT")
		}
		pos, err := position.Parse(fields[1])
		if err != nil {
			return err
		}
		return sh.Set(pos, strings.Join(fields[2:], " "))
	case "get":
		if len(fields) != 2 {
			return fmt.Errorf("usage: get POS")
		}
		pos, err := position.Parse(fields[1])
		if err != nil {
			return err
		}
		c, err := sh.Get(pos)
		if err != nil {
			return err
		}
		if c == nil {
			fmt.Fprintln(out, "")
			return nil
		}
		fmt.Fprintf(out, "%s = %s\n", fields[1], c.Body.Value(sh).String())
		return nil
	case "clear":
		if len(fields) != 2 {
			return fmt.Errorf("usage: clear POS")
		}
		pos, err := position.Parse(fields[1])
		if err != nil {
			return err
		}
		return sh.Clear(pos)
	case "print":
		return sh.PrintValues(out)
	case "texts":
		return sh.PrintTexts(out)
	default:
		return fmt.Errorf("unknown command: %s (try set/get/clear/print/texts)", fields[0])
	}
}
