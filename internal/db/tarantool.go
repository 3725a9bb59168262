package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tarantool/go-tarantool"
	pool "github.com/tarantool/go-tarantool/connection_pool"
)

const snapshotsSpace = "snapshots"

// TarantoolStorage implements the Storage interface using Tarantool.
// Snapshots are tuples {key, id, created_at, payload} in the snapshots space.
type TarantoolStorage struct {
	connPool *pool.ConnectionPool
	key      string
}

// NewTarantoolStorage creates a new Tarantool storage instance with connection pool
func NewTarantoolStorage(addr string, opts tarantool.Opts, key string) (*TarantoolStorage, error) {
	slog.Info("Connecting to Tarantool", "addr", addr)

	poolOpts := pool.OptsPool{
		CheckTimeout: 1 * time.Second,
	}

	connPool, err := pool.ConnectWithOpts([]string{addr}, opts, poolOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	_, err = connPool.Call("box.space."+snapshotsSpace+":len", []interface{}{}, pool.ANY)
	if err != nil {
		connPool.Close()
		return nil, fmt.Errorf("failed to verify %s space: %w", snapshotsSpace, err)
	}

	slog.Info("Successfully connected to Tarantool")
	return &TarantoolStorage{
		connPool: connPool,
		key:      key,
	}, nil
}

// SaveSnapshot replaces the snapshot tuple of the storage key
func (s *TarantoolStorage) SaveSnapshot(ctx context.Context, payload []byte) (*Snapshot, error) {
	snapshot := &Snapshot{
		ID:        uuid.New().String(),
		Key:       s.key,
		CreatedAt: uint64(time.Now().Unix()),
		Payload:   payload,
	}
	slog.Info("Storing snapshot in Tarantool", "key", s.key, "snapshot_id", snapshot.ID)

	_, err := s.connPool.Replace(
		snapshotsSpace,
		[]interface{}{
			snapshot.Key,
			snapshot.ID,
			snapshot.CreatedAt,
			string(snapshot.Payload),
		},
		pool.RW,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	return snapshot, nil
}

// LoadSnapshot retrieves the snapshot of the storage key
func (s *TarantoolStorage) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	slog.Info("Retrieving snapshot from Tarantool", "key", s.key)

	resp, err := s.connPool.Select(snapshotsSpace, "primary", 0, 1, tarantool.IterEq, []interface{}{s.key}, pool.ANY)
	if err != nil {
		return nil, fmt.Errorf("tarantool select error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}

	return snapshotFromTuple(resp.Data[0])
}

// DeleteSnapshot removes the snapshot of the storage key
func (s *TarantoolStorage) DeleteSnapshot(ctx context.Context) error {
	slog.Info("Deleting snapshot from Tarantool", "key", s.key)

	_, err := s.connPool.Delete(snapshotsSpace, "primary", []interface{}{s.key}, pool.RW)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

// Close closes the Tarantool connection pool
func (s *TarantoolStorage) Close() error {
	slog.Info("Closing Tarantool connection pool")
	errs := s.connPool.Close()
	if len(errs) > 0 {
		return fmt.Errorf("errors closing Tarantool pool: %v", errs)
	}
	return nil
}

// snapshotFromTuple converts a Tarantool tuple into a Snapshot
func snapshotFromTuple(tuple interface{}) (*Snapshot, error) {
	data, ok := tuple.([]interface{})
	if !ok || len(data) < 4 {
		return nil, fmt.Errorf("invalid Tarantool response")
	}

	key, ok1 := data[0].(string)
	id, ok2 := data[1].(string)
	createdAt, ok3 := toUint64(data[2])
	payload, ok4 := data[3].(string)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("invalid snapshot tuple")
	}

	return &Snapshot{
		ID:        id,
		Key:       key,
		CreatedAt: createdAt,
		Payload:   []byte(payload),
	}, nil
}

// toUint64 is a helper for the integer types msgpack may decode into
func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case int64:
		return uint64(v), v >= 0
	case int32:
		return uint64(v), v >= 0
	case int16:
		return uint64(v), v >= 0
	case int8:
		return uint64(v), v >= 0
	case int:
		return uint64(v), v >= 0
	}
	return 0, false
}
