package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStorage keeps the snapshot as a plain JSON file so it can be edited by hand
type FileStorage struct {
	path string
}

// NewFileStorage creates a file storage writing to path
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// SaveSnapshot writes the payload to the file, replacing it atomically
func (s *FileStorage) SaveSnapshot(ctx context.Context, payload []byte) (*Snapshot, error) {
	slog.Info("Storing snapshot", "path", s.path, "bytes", len(payload))

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return nil, fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return &Snapshot{
		ID:        uuid.New().String(),
		Key:       s.path,
		CreatedAt: uint64(time.Now().Unix()),
		Payload:   payload,
	}, nil
}

// LoadSnapshot reads the snapshot file
func (s *FileStorage) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	slog.Info("Loading snapshot", "path", s.path)

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return &Snapshot{
		Key:       s.path,
		CreatedAt: uint64(info.ModTime().Unix()),
		Payload:   payload,
	}, nil
}

// DeleteSnapshot removes the snapshot file
func (s *FileStorage) DeleteSnapshot(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for files
func (s *FileStorage) Close() error {
	return nil
}
