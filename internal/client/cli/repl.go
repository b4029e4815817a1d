package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Settings(ctx context.Context) error
	HTML(ctx context.Context, args []string) error
	Key(ctx context.Context, chord string) error
}

const helpText = `Available commands:
  add                  add a machine
  (l)ist               show the machines passing the filter and search
  filter <name>        all, pending, in-progress or pwned
  search [term]        search name, concepts and description (no term clears)
  edit <id>            edit, rate or delete a machine
  delete <id>          delete a machine
  export [dir]         write a JSON backup
  import <file>        replace every machine with a JSON backup
  clear                delete every machine
  settings             show storage details
  html <file>          write the current view as an HTML page
  esc | ctrl+k         close open forms | jump to search
  exit | quit          leave the program`

// runREPL starts a simple read–eval–print loop for the machinecal CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current view status (from statusFn). Errors returned
// by command handlers are turned into a one-line notice and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			err = a.Add(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "filter":
			err = a.Filter(ctx, args)

		case "search":
			err = a.Search(ctx, args)

		case "edit":
			err = a.Edit(ctx, args)

		case "delete":
			err = a.Delete(ctx, args)

		case "export":
			err = a.Export(ctx, args)

		case "import":
			err = a.Import(ctx, args)

		case "clear":
			err = a.Clear(ctx)

		case "settings":
			err = a.Settings(ctx)

		case "html":
			err = a.HTML(ctx, args)

		case "esc", "escape", "ctrl+k", "cmd+k":
			err = a.Key(ctx, cmd)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(Notice(err))
		}
	}
}
