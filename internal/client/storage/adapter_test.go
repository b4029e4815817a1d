package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/machinecal/internal/client/client"
	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/machinecal/internal/common"
	"github.com/dmitrijs2005/machinecal/internal/dbx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sample() []models.Machine {
	return []models.Machine{
		{
			ID: 1700000000002, Name: "Lame", Platform: "HackTheBox", Date: "2024-03-01",
			Difficulty: models.DifficultyEasy, OS: models.OSLinux, Status: models.StatusPwned,
			Description: "smb", Concepts: []string{"SMB", "CVE"}, Rating: 4, Opinion: "classic",
			CreatedAt: 1700000000002,
		},
		{
			ID: 1700000000001, Name: "Blue", Platform: "HackTheBox", Date: "",
			Difficulty: models.DifficultyEasy, OS: models.OSWindows, Status: models.StatusPending,
			Concepts: []string{}, CreatedAt: 1700000000001,
		},
	}
}

func TestAdapter_SaveThenLoad_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	a := NewAdapter(db, "", nil)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, sample()))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Fatalf("loaded collection mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapter_Load_MissingSlotIsEmpty(t *testing.T) {
	db := newTestDB(t)
	a := NewAdapter(db, "", nil)

	got, err := a.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdapter_Load_UnparsableIsEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, DefaultKey, []byte("{not json")))

	a := NewAdapter(db, "", nil)
	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdapter_Load_ObjectInsteadOfArrayIsEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, DefaultKey, []byte(`{"id":1}`)))

	got, err := NewAdapter(db, "", nil).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdapter_Save_OverwritesPreviousValue(t *testing.T) {
	db := newTestDB(t)
	a := NewAdapter(db, "", nil)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, sample()))
	require.NoError(t, a.Save(ctx, sample()[1:]))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Blue", got[0].Name)
}

func TestAdapter_Save_NilCollectionStoresEmptyArray(t *testing.T) {
	db := newTestDB(t)
	a := NewAdapter(db, "", nil)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, nil))

	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAdapter_CustomKeyIsolatesSlots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := NewAdapter(db, "lab-a", nil)
	b := NewAdapter(db, "lab-b", nil)
	require.NoError(t, a.Save(ctx, sample()))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "lab-a", a.Key())
}

func TestAdapter_Info(t *testing.T) {
	db := newTestDB(t)
	a := NewAdapter(db, "", nil)
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	a.now = func() time.Time { return fixed }
	ctx := context.Background()

	info, err := a.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.SizeBytes)
	assert.True(t, info.SavedAt.IsZero())

	require.NoError(t, a.Save(ctx, sample()))

	info, err = a.Info(ctx)
	require.NoError(t, err)
	assert.Greater(t, info.SizeBytes, 0)
	assert.True(t, fixed.Equal(info.SavedAt))
}

func TestAdapter_Save_WriteFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO metadata").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	a := NewAdapter(db, "", nil)
	err = a.Save(context.Background(), sample())
	require.Error(t, err)

	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Save_BeginFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err = NewAdapter(db, "", nil).Save(context.Background(), sample())
	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Load_ReadFailureIsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM metadata").WithArgs(DefaultKey).WillReturnError(errors.New("io error"))

	got, err := NewAdapter(db, "", nil).Load(context.Background())
	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

// stampFailingRepo fails writes to the timestamp slot and delegates the rest.
type stampFailingRepo struct {
	metadata.Repository
}

func (r stampFailingRepo) Set(ctx context.Context, key string, value []byte) error {
	if strings.HasSuffix(key, savedAtSuffix) {
		return errors.New("stamp write failed")
	}
	return r.Repository.Set(ctx, key, value)
}

func TestAdapter_Save_PartialFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := NewAdapter(db, "", nil)
	require.NoError(t, a.Save(ctx, sample()[:1]))

	a.repo = func(db dbx.DBTX) metadata.Repository {
		return stampFailingRepo{Repository: metadata.NewRepository(db)}
	}
	err := a.Save(ctx, sample())
	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "stamp write failed")

	got, err := NewAdapter(db, "", nil).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(sample()[:1], got), "the slot keeps the previous value")
}
