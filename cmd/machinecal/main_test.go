package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Each command opens the database; the check fails when one returns
// without closing it.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := rootCmd(args, strings.NewReader(input), &out, &errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeBackup(t *testing.T, dir string, ms []models.Machine) string {
	t.Helper()
	data, err := transfer.Encode(ms)
	require.NoError(t, err)
	path := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: N/A")
	assert.Contains(t, out, "Build commit: N/A")
}

func TestImportListStatsClear(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "test.db")

	backup := writeBackup(t, dir, []models.Machine{
		{ID: 2, Name: "Lame", Platform: "HackTheBox", Date: "2024-03-01", Difficulty: models.DifficultyEasy,
			OS: models.OSLinux, Status: models.StatusPwned, Concepts: []string{"SMB"}, Rating: 4},
		{ID: 1, Name: "Blue", Platform: "HackTheBox", Date: "2024-02-01", Difficulty: models.DifficultyEasy,
			OS: models.OSWindows, Status: models.StatusPending, Concepts: []string{"EternalBlue"}},
	})

	out, err := execute(t, "", "--db", db, "--color", "never", "import", backup, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "2 machines loaded")

	out, err = execute(t, "", "--db", db, "stats")
	require.NoError(t, err)
	assert.Equal(t, "Total: 2\nPwned: 1\nPending: 1\n", out)

	out, err = execute(t, "", "-d", db, "--color", "never", "list", "--status", "pwned")
	require.NoError(t, err)
	assert.Contains(t, out, "LAME")
	assert.NotContains(t, out, "BLUE")

	out, err = execute(t, "", "-d", db, "--color", "never", "list", "--search", "eternal")
	require.NoError(t, err)
	assert.Contains(t, out, "BLUE")
	assert.NotContains(t, out, "LAME")

	page := filepath.Join(dir, "site", "index.html")
	_, err = execute(t, "", "-d", db, "list", "--html", page)
	require.NoError(t, err)
	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "machine-card")

	out, err = execute(t, "", "-d", db, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "All data has been deleted")

	out, err = execute(t, "", "-d", db, "stats")
	require.NoError(t, err)
	assert.Equal(t, "Total: 0\nPwned: 0\nPending: 0\n", out)
}

func TestImportAsksForConfirmation(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "test.db")

	backup := writeBackup(t, dir, []models.Machine{
		{ID: 1, Name: "Blue", Platform: "HackTheBox", Difficulty: models.DifficultyEasy,
			OS: models.OSWindows, Status: models.StatusPending, Concepts: []string{}},
	})

	out, err := execute(t, "n\n", "-d", db, "import", backup)
	require.Error(t, err)
	assert.Contains(t, out, "replace your 0 current machines with 1 machines")

	out, err = execute(t, "", "-d", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 0")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "test.db")

	_, err := execute(t, "", "-d", db, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data to export")

	backup := writeBackup(t, dir, []models.Machine{
		{ID: 1, Name: "Blue", Platform: "HackTheBox", Difficulty: models.DifficultyEasy,
			OS: models.OSWindows, Status: models.StatusPending, Concepts: []string{}},
	})
	_, err = execute(t, "", "-d", db, "import", backup, "-y")
	require.NoError(t, err)

	outDir := filepath.Join(dir, "backups")
	out, err := execute(t, "", "-d", db, "export", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Data exported to")

	matches, err := filepath.Glob(filepath.Join(outDir, transfer.FilePrefix+"*"+transfer.Extension))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestImportRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "backup.txt")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

	_, err := execute(t, "", "-d", filepath.Join(dir, "test.db"), "import", path, "--yes")
	require.Error(t, err)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "", "list", "--status", "done")
	require.Error(t, err)
}

func TestREPLExitsOnEndOfInput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "exit\n", "-d", filepath.Join(dir, "test.db"), "--color", "never")
	require.NoError(t, err)
}

func TestConfigFlagSpellings(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "joined.db")

	backup := writeBackup(t, dir, []models.Machine{
		{ID: 1, Name: "Blue", Platform: "HackTheBox", Difficulty: models.DifficultyEasy,
			OS: models.OSWindows, Status: models.StatusPending, Concepts: []string{}},
	})
	_, err := execute(t, "", "-d"+db, "import", backup, "-y")
	require.NoError(t, err)

	for _, spelling := range [][]string{{"-d" + db}, {"-d", db}, {"--db", db}, {"--db=" + db}} {
		out, err := execute(t, "", append(spelling, "stats")...)
		require.NoError(t, err, spelling)
		assert.Contains(t, out, "Total: 1", spelling)
	}

	_, err = os.Stat(filepath.Join(dir, "machinecal.db"))
	assert.True(t, os.IsNotExist(err), "the default database must not be touched")
}
