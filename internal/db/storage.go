package db

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Snapshot is a stored copy of the crawled report data
type Snapshot struct {
	ID        string
	Key       string
	CreatedAt uint64
	Payload   []byte
}

// Storage defines the methods for working with the snapshot storage
type Storage interface {
	// SaveSnapshot replaces the stored snapshot
	SaveSnapshot(ctx context.Context, payload []byte) (*Snapshot, error)
	// LoadSnapshot returns the stored snapshot or ErrNotFound
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	// DeleteSnapshot removes the stored snapshot
	DeleteSnapshot(ctx context.Context) error
	// Close releases the storage
	Close() error
}
