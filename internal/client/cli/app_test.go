package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/client"
	"github.com/dmitrijs2005/machinecal/internal/client/config"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/services"
	"github.com/dmitrijs2005/machinecal/internal/client/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app   *App
	svc   services.CatalogService
	store *storage.Adapter
	out   *bytes.Buffer
	cfg   *config.Config
}

func seedMachines() []models.Machine {
	return []models.Machine{
		{ID: 2, Name: "Lame", Platform: "HackTheBox", Date: "2024-03-01", Difficulty: models.DifficultyEasy,
			OS: models.OSLinux, Status: models.StatusPwned, Concepts: []string{"SMB"}, Rating: 4, CreatedAt: 2},
		{ID: 1, Name: "Blue", Platform: "HackTheBox", Date: "2024-02-01", Difficulty: models.DifficultyEasy,
			OS: models.OSWindows, Status: models.StatusPending, Concepts: []string{"EternalBlue"}, CreatedAt: 1},
	}
}

func newHarness(t *testing.T, seed []models.Machine, input string) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := storage.NewAdapter(db, "", nil)
	if seed != nil {
		require.NoError(t, store.Save(ctx, seed))
	}

	svc := services.NewCatalogService(store, nil)
	require.NoError(t, svc.Load(ctx))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ExportDir = t.TempDir()
	cfg.Color = "never"

	out := &bytes.Buffer{}
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(out, a...) }
	t.Cleanup(func() { printlnFn = origPrint })

	return &harness{
		app:   newApp(cfg, svc, nil, strings.NewReader(input), out),
		svc:   svc,
		store: store,
		out:   out,
		cfg:   cfg,
	}
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	runREPL(context.Background(), h.app, h.app.status, h.app.scanner)
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

func TestApp_AddFlow(t *testing.T) {
	h := newHarness(t, nil, lines(
		"add",
		"Jerry",
		"", // platform
		"", // date
		"medium",
		"windows",
		"", // status
		"Tomcat manager",
		"Tomcat, , WAR",
		"exit",
	))
	h.run(t)

	st := h.svc.State()
	require.Equal(t, 1, st.Len())
	m := st.Machines[0]
	assert.Equal(t, "Jerry", m.Name)
	assert.Equal(t, "HackTheBox", m.Platform)
	assert.Equal(t, time.Now().Format(models.DateLayout), m.Date)
	assert.Equal(t, models.DifficultyMedium, m.Difficulty)
	assert.Equal(t, models.OSWindows, m.OS)
	assert.Equal(t, models.StatusPending, m.Status)
	assert.Equal(t, []string{"Tomcat", "WAR"}, m.Concepts)
	assert.False(t, st.Dialogs.Add)
	assert.Contains(t, h.out.String(), "✅ Added Jerry")

	stored, err := h.store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(st.Machines, stored))
}

func TestApp_AddBlankNameRejected(t *testing.T) {
	h := newHarness(t, nil, lines("add", "   ", "", "", "", "", "", "", "", "exit"))
	h.run(t)

	assert.Zero(t, h.svc.State().Len())
	assert.False(t, h.svc.State().Dialogs.Add)
	assert.Contains(t, h.out.String(), "⚠️ Invalid name: is required")
}

func TestApp_AddEscapeClosesForm(t *testing.T) {
	h := newHarness(t, nil, lines("add", "Jerry", "esc", "exit"))
	h.run(t)

	assert.Zero(t, h.svc.State().Len())
	assert.False(t, h.svc.State().Dialogs.Any())
	assert.Contains(t, h.out.String(), "Closed.")
}

func TestApp_EditSaves(t *testing.T) {
	h := newHarness(t, seedMachines(), lines(
		"edit 1",
		"", "", "", // difficulty, os, date
		"pwned",
		"", "", // description, concepts
		"Great box",
		"9", // out of range, asked again
		"4",
		"", // action: save
		"exit",
	))
	h.run(t)

	m, ok := h.svc.State().Find(1)
	require.True(t, ok)
	assert.Equal(t, models.StatusPwned, m.Status)
	assert.Equal(t, 4, m.Rating)
	assert.Equal(t, "Great box", m.Opinion)
	assert.Equal(t, []string{"EternalBlue"}, m.Concepts)
	assert.Zero(t, h.svc.State().EditingID)
	assert.Zero(t, h.svc.State().Rating)
	assert.Contains(t, h.out.String(), "Enter a number from 0 to 5")
	assert.Contains(t, h.out.String(), "✅ Saved Blue")

	stored, err := h.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stored[1].Rating)
}

func TestApp_EditDeletes(t *testing.T) {
	h := newHarness(t, seedMachines(), lines(
		"edit 2",
		"", "", "", "", "", "", "", "",
		"delete",
		"y",
		"exit",
	))
	h.run(t)

	assert.Equal(t, 1, h.svc.State().Len())
	_, ok := h.svc.State().Find(2)
	assert.False(t, ok)
}

func TestApp_EditUnknownAndUsage(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("edit 99", "edit", "edit abc", "exit"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "⚠️ No machine with that id")
	assert.Equal(t, 2, strings.Count(out, "⚠️ usage: edit <id>"))
}

func TestApp_Delete(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("delete 1", "n", "delete 1", "y", "delete 1", "exit"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, "🗑️ Deleted Blue")
	assert.Contains(t, out, "⚠️ No machine with that id")
	assert.Equal(t, 1, h.svc.State().Len())
}

func TestApp_FilterAndSearch(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("filter pending", "search eternal", "filter bogus", "exit"))
	h.run(t)

	st := h.svc.State()
	assert.Equal(t, models.Filter("pending"), st.Filter)
	assert.Equal(t, "eternal", st.Search)
	assert.Contains(t, h.out.String(), "⚠️ Invalid filter")

	res, stats := h.svc.View()
	require.Len(t, res.Cards, 1)
	assert.Equal(t, "Blue", res.Cards[0].Name)
	assert.Equal(t, 2, stats.Total)
	assert.Contains(t, h.app.status(), `pending "eternal"`)
}

func TestApp_KeyShortcuts(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("ctrl+k", "smb", "esc", "exit"))
	h.run(t)

	assert.Equal(t, "smb", h.svc.State().Search)
	assert.False(t, h.svc.State().SearchFocused)
	assert.Contains(t, h.out.String(), "Closed.")
}

func TestApp_ExportThenImport(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("export", "exit"))
	h.run(t)

	path := filepath.Join(h.cfg.ExportDir, "machine-calendar-backup-"+time.Now().Format(models.DateLayout)+".json")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "✅ Data exported to "+path)

	other := newHarness(t, seedMachines()[:1], lines("import "+path, "y", "exit"))
	other.run(t)

	assert.Contains(t, other.out.String(), "This will replace your 1 current machines with 2 machines from the file.")
	assert.Contains(t, other.out.String(), "2 machines loaded")
	assert.Empty(t, cmp.Diff(seedMachines(), other.svc.State().Machines))
}

func TestApp_ImportRejectedOrDeclined(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "obj.json")
	require.NoError(t, os.WriteFile(obj, []byte(`{"machines":[]}`), 0o600))
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[]`), 0o600))

	h := newHarness(t, seedMachines(), lines("import "+obj, "import "+good, "n", "import", "exit"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "❌ Error importing file")
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, "⚠️ usage: import <file.json>")
	assert.Empty(t, cmp.Diff(seedMachines(), h.svc.State().Machines))
}

func TestApp_Clear(t *testing.T) {
	h := newHarness(t, seedMachines(), lines("clear", "y", "n", "clear", "y", "y", "clear", "exit"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, "Are you absolutely sure?")
	assert.Contains(t, out, "✅ All data has been deleted")
	assert.Contains(t, out, "⚠️ No data to delete")
	assert.Zero(t, h.svc.State().Len())
}

func TestApp_ExportEmpty(t *testing.T) {
	h := newHarness(t, nil, lines("export", "exit"))
	h.run(t)

	assert.Contains(t, h.out.String(), "⚠️ No data to export")
	entries, err := os.ReadDir(h.cfg.ExportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_SettingsAndHTML(t *testing.T) {
	page := filepath.Join(t.TempDir(), "report", "page.html")
	h := newHarness(t, seedMachines(), lines("settings", "html "+page, "list", "exit"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Machines:    2")
	assert.Contains(t, out, "Stored size:")
	assert.Contains(t, out, "Slot:        htb-machines")
	assert.Contains(t, out, "✅ Page written to "+page)
	assert.Contains(t, out, "LAME")

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), `class="machine-card"`))
}
