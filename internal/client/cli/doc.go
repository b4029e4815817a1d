// Package cli provides the interactive machinecal command-line client.
//
// It wires configuration, the local SQLite store and the catalog service to
// a read–eval–print loop. Forms are filled in prompt by prompt; typing "esc"
// at any prompt closes the open form, and the "ctrl+k" command jumps to the
// search prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// The same App methods back the one-shot subcommands of cmd/machinecal.
// See App and runREPL for details.
package cli
