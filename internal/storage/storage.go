// Package storage persists the shared variable store. The script engine
// itself persists nothing; this is the owning application's side of the
// save format, keyed by save-slot UUID.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("save slot not found")

// Storage persists variable-store snapshots.
type Storage interface {
	// SaveVars stores a snapshot of the variable store under a slot.
	SaveVars(ctx context.Context, slot uuid.UUID, snapshot map[string]string) error

	// LoadVars returns the snapshot for a slot, or ErrNotFound.
	LoadVars(ctx context.Context, slot uuid.UUID) (map[string]string, error)

	// DeleteVars removes a slot. Deleting a missing slot is not an error.
	DeleteVars(ctx context.Context, slot uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}
