// Command cellgrid is the CLI front end for the spreadsheet engine: a
// websocket server, a headless ZeroMQ change-bus, a one-shot batch mode for
// loading and printing a sheet, and an interactive REPL. The subcommand
// dispatch below mirrors the teacher's own main.go switch-on-os.Args[1]
// style.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"cellgrid/internal/eventbus"
	"cellgrid/internal/server"
	"cellgrid/sheet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		usage()
	case "serve":
		os.Exit(serveCommand(os.Args[2:]))
	case "bus":
		os.Exit(busCommand(os.Args[2:]))
	case "repl":
		os.Exit(runREPL(os.Stdin, os.Stdout))
	case "load":
		os.Exit(loadCommand(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  cellgrid <command> [arguments]\n")
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  serve [addr]             start the websocket live-update server (default :8080)\n")
	fmt.Fprintf(os.Stderr, "  bus [addr]               start a headless ZeroMQ change-bus server (default tcp://127.0.0.1:5556)\n")
	fmt.Fprintf(os.Stderr, "  repl                     start an interactive shell\n")
	fmt.Fprintf(os.Stderr, "  load <file>              load set/get/print commands from a file and print the result\n")
}

// serveCommand binds the address the same way the teacher's
// spreadsheetCommand does: accept a bare port, a "host:port" pair, or
// nothing (default :8080), and strip "localhost" since binding to all
// interfaces avoids its IPv4/IPv6 ambiguity.
func serveCommand(args []string) int {
	addr := ":8080"
	if len(args) > 0 {
		addr = normalizeAddr(args[0])
	}

	srv := server.New()
	if err := srv.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}

func normalizeAddr(addr string) string {
	addr = strings.Replace(addr, "localhost", "", 1)
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return addr
}

// busCommand starts a bare PUB socket with no other transport attached, for
// a headless recompute worker or a second UI to subscribe to. Edits arrive
// over stdin using the same command syntax as the REPL.
func busCommand(args []string) int {
	addr := "tcp://127.0.0.1:5556"
	if len(args) > 0 {
		addr = args[0]
	}

	sh := sheet.New()
	ctx := context.Background()
	bus, err := eventbus.New(ctx, addr, sh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eventbus error: %v\n", err)
		return 1
	}
	defer bus.Close()

	fmt.Fprintf(os.Stdout, "publishing cell changes on %s; reading edits from stdin\n", addr)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := dispatchSheetCommand(sh, strings.TrimSpace(scanner.Text()), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return 0
}

// loadCommand replays set/get/clear/print commands, one per line, from a
// file against a scratch sheet and writes the final printable region to
// stdout. It exists for scripted/batch use where a REPL's prompt and
// history management are unwanted overhead.
func loadCommand(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cellgrid load <file>")
		return 2
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", args[0], err)
		return 1
	}
	defer f.Close()

	sh := sheet.New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := dispatchSheetCommand(sh, line, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		return 1
	}

	return printFinal(sh)
}

func printFinal(sh *sheet.Sheet) int {
	if err := sh.PrintValues(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "print error: %v\n", err)
		return 1
	}
	return 0
}
