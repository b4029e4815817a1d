package cli

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/machinecal/internal/client/view"
	"github.com/dmitrijs2005/machinecal/internal/filex"
)

// Export writes a backup into the given directory, or the configured one.
func (a *App) Export(ctx context.Context, args []string) error {
	dir := a.config.ExportDir
	if len(args) > 0 {
		dir = args[0]
	}

	path, err := a.svc.Export(ctx, dir)
	if err != nil {
		return err
	}
	a.printf("✅ Data exported to %s\n", path)
	return nil
}

// Import replaces the collection with a backup file after confirmation.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("import <file.json>")
	}

	n, err := a.svc.Import(ctx, args[0], a.confirmer())
	if err != nil && n == 0 {
		return err
	}
	a.printf("✅ Data imported\n%d machines loaded\n", n)
	return err
}

// Clear deletes every machine after two confirmations.
func (a *App) Clear(ctx context.Context) error {
	if err := a.svc.DeleteAll(ctx, a.confirmer()); err != nil {
		return err
	}
	a.printf("✅ All data has been deleted\n")
	return nil
}

// Settings prints storage details.
func (a *App) Settings(ctx context.Context) error {
	info, err := a.svc.Settings(ctx)

	a.printf("Machines:    %d\n", info.Total)
	a.printf("Stored size: %.2f KB\n", info.SizeKB)
	if !info.SavedAt.IsZero() {
		a.printf("Last saved:  %s\n", info.SavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	a.printf("Database:    %s\n", a.config.DatabasePath)
	a.printf("Slot:        %s\n", a.config.StorageKey)
	return err
}

// HTML writes the current view as a standalone page.
func (a *App) HTML(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("html <file.html>")
	}

	h, err := view.NewHTMLRenderer()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	res, stats := a.svc.View()
	if err := h.Render(&buf, "Machine Calendar", res, stats); err != nil {
		return err
	}

	dir, err := filex.EnsureDir(filepath.Dir(args[0]))
	if err != nil {
		return err
	}
	path, err := filex.WriteFileAtomic(dir, filepath.Base(args[0]), buf.Bytes())
	if err != nil {
		return err
	}
	a.printf("✅ Page written to %s\n", path)
	return nil
}
