// Package storage persists the machine collection as a single JSON value in
// a named slot of the local key/value store.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/machinecal/internal/client/models"
	"github.com/dmitrijs2005/machinecal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/machinecal/internal/common"
	"github.com/dmitrijs2005/machinecal/internal/dbx"
	"github.com/dmitrijs2005/machinecal/internal/logging"
)

// DefaultKey is the slot the collection is stored under.
const DefaultKey = "htb-machines"

// savedAtSuffix names the bookkeeping slot holding the last save time.
const savedAtSuffix = ":saved_at"

// Info describes what is currently stored in the slot.
type Info struct {
	SizeBytes int
	SavedAt   time.Time // zero if never saved
}

// Adapter reads and writes the collection slot.
type Adapter struct {
	db     *sql.DB
	repo   metadata.Factory
	key    string
	logger logging.Logger
	now    func() time.Time
}

// NewAdapter returns an Adapter over db. An empty key selects DefaultKey.
func NewAdapter(db *sql.DB, key string, logger logging.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Adapter{db: db, repo: metadata.NewRepository, key: key, logger: logger, now: time.Now}
}

// Key returns the slot name.
func (a *Adapter) Key() string { return a.key }

// Save serializes the whole collection and overwrites the slot. The slot and
// its save timestamp are written in one transaction.
func (a *Adapter) Save(ctx context.Context, machines []models.Machine) error {
	if machines == nil {
		machines = []models.Machine{}
	}
	blob, err := json.Marshal(machines)
	if err != nil {
		return &common.StorageError{Op: "encode", Err: err}
	}
	stamp := []byte(a.now().UTC().Format(time.RFC3339))

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repo(tx)
		if err := repo.Set(ctx, a.key, blob); err != nil {
			return err
		}
		return repo.Set(ctx, a.key+savedAtSuffix, stamp)
	})
	if err != nil {
		a.logger.Error(ctx, "save failed", "key", a.key, "error", err)
		return &common.StorageError{Op: "save", Err: err}
	}

	a.logger.Debug(ctx, "collection saved", "key", a.key, "count", len(machines), "bytes", len(blob))
	return nil
}

// Load returns the stored collection. A missing or unparsable value yields an
// empty collection; only repository failures are reported.
func (a *Adapter) Load(ctx context.Context) ([]models.Machine, error) {
	blob, err := a.repo(a.db).Get(ctx, a.key)
	if err != nil {
		return []models.Machine{}, &common.StorageError{Op: "load", Err: err}
	}
	if blob == nil {
		return []models.Machine{}, nil
	}

	var machines []models.Machine
	if err := json.Unmarshal(blob, &machines); err != nil {
		a.logger.Warn(ctx, "stored collection is unreadable, starting empty", "key", a.key, "error", err)
		return []models.Machine{}, nil
	}
	if machines == nil {
		machines = []models.Machine{}
	}
	for i := range machines {
		if machines[i].Concepts == nil {
			machines[i].Concepts = []string{}
		}
	}
	return machines, nil
}

// Info reports the size of the stored value and the last save time.
func (a *Adapter) Info(ctx context.Context) (Info, error) {
	repo := a.repo(a.db)

	blob, err := repo.Get(ctx, a.key)
	if err != nil {
		return Info{}, &common.StorageError{Op: "info", Err: err}
	}
	info := Info{SizeBytes: len(blob)}

	stamp, err := repo.Get(ctx, a.key+savedAtSuffix)
	if err != nil {
		return Info{}, &common.StorageError{Op: "info", Err: err}
	}
	if stamp != nil {
		if t, perr := time.Parse(time.RFC3339, string(stamp)); perr == nil {
			info.SavedAt = t
		}
	}
	return info, nil
}
