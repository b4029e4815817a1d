// Package metadata is the local key/value store: named slots holding opaque
// byte values in the SQLite "metadata" table.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/machinecal/internal/dbx"
)

// Repository reads and writes named slots.
type Repository interface {
	// Get returns the slot value, or (nil, nil) when the slot does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set creates or overwrites the slot.
	Set(ctx context.Context, key string, value []byte) error
}

// Factory binds a Repository to a connection or a transaction.
type Factory func(db dbx.DBTX) Repository
