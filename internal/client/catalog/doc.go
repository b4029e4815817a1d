// Package catalog holds the application state of the machine catalog and the
// pure operations over it: the entry store (create, update, delete, replace),
// the add/edit form flows with the transient star rating, filter and search
// selection, and keyboard shortcut handling.
//
// Every operation takes a State and returns a new State. The returned value
// never shares slice memory with its input, so callers may keep old states
// around (for example to roll back after a failed confirmation).
package catalog
