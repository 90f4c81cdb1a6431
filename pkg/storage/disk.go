// Package storage provides the key/blob disks estoque persists its database
// image to.
//
// Three drivers are available:
//   - "local" - files under STORAGE_LOCAL_ROOT (default)
//   - "s3"    - S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//   - "redis" - string keys in Redis
//
// Quick start:
//
//	m, err := storage.Connect(ctx)
//	disk, err := m.Use(config.SlotDriver())
//	err = disk.Put(ctx, "estoque_sqlite_db", data)
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the path.
var ErrNotFound = errors.New("storage: not found")

// Disk is the driver interface. Every driver must implement this.
type Disk interface {
	// Put writes content to path, replacing anything stored there.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the full content at path, or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether anything is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Returns nil if it did not exist.
	Delete(ctx context.Context, path string) error
}
