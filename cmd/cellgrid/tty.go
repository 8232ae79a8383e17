package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ttyInput is a trimmed-down version of the teacher's repl/input_tty.go:
// raw-mode byte-at-a-time reading with backspace, backward-only history
// recall, and Ctrl+C/Ctrl+D handling. Arrow keys are not told apart: every
// escape sequence steps history back one entry, and there is no cursor
// movement within a line; a spreadsheet REPL's commands are short enough
// that reline-from-scratch editing is an acceptable trim.
type ttyInput struct {
	in      *os.File
	out     io.Writer
	state   *term.State
	history []string
}

func newTTYInput(in io.Reader, out io.Writer) (*ttyInput, bool) {
	inFile, ok := in.(*os.File)
	if !ok {
		return nil, false
	}
	if !term.IsTerminal(int(inFile.Fd())) {
		return nil, false
	}
	state, err := term.MakeRaw(int(inFile.Fd()))
	if err != nil {
		return nil, false
	}
	return &ttyInput{in: inFile, out: out, state: state}, true
}

func (t *ttyInput) Close() {
	if t == nil || t.state == nil {
		return
	}
	_ = term.Restore(int(t.in.Fd()), t.state)
}

// readLine blocks for one line of edited input. ok is false on Ctrl+C,
// Ctrl+D on an empty line, or a read error.
func (t *ttyInput) readLine(prompt string) (string, bool) {
	fmt.Fprint(t.out, prompt)
	line := make([]byte, 0, 64)
	historyIdx := len(t.history)
	buf := make([]byte, 1)
	escState := 0 // 1 after ESC, 2 after "ESC [" or "ESC O"

	for {
		n, err := t.in.Read(buf)
		if n == 0 || err != nil {
			return "", false
		}
		b := buf[0]
		if escState == 1 && (b == '[' || b == 'O') {
			escState = 2
			continue
		}
		if escState == 2 {
			escState = 0 // final byte of an arrow-key sequence
			continue
		}
		escState = 0
		switch b {
		case '\r', '\n':
			fmt.Fprint(t.out, "\r\n")
			entered := string(line)
			t.appendHistory(entered)
			return entered, true
		case 0x03: // Ctrl+C
			fmt.Fprint(t.out, "^C\r\n")
			return "", false
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				fmt.Fprint(t.out, "\r\n")
				return "", false
			}
		case 0x7f, 0x08: // Backspace
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(t.out, "\b \b")
			}
		default:
			if b >= 0x20 && b < 0x7f {
				line = append(line, b)
				fmt.Fprintf(t.out, "%c", b)
			} else if b == 0x1b {
				// Swallow escape sequences (arrow keys); step history back
				// one entry per ESC for a minimal "previous command" gesture.
				escState = 1
				if historyIdx > 0 {
					historyIdx--
					redrawHistory(t.out, prompt, &line, t.history[historyIdx])
				}
			}
		}
	}
}

func redrawHistory(out io.Writer, prompt string, line *[]byte, entry string) {
	fmt.Fprintf(out, "\r%s\x1b[K%s", prompt, entry)
	*line = []byte(entry)
}

func (t *ttyInput) appendHistory(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(t.history); n > 0 && t.history[n-1] == line {
		return
	}
	t.history = append(t.history, line)
}

// lineReader is the non-TTY fallback (piped stdin, redirected files).
type lineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newLineReader(in io.Reader, out io.Writer) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *lineReader) readLine(prompt string) (string, bool) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		return "", false
	}
	return r.scanner.Text(), true
}
