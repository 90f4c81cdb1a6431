package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// Manager holds the configured disks by name.
type Manager struct {
	mu    sync.RWMutex
	disks map[string]Disk
}

// NewManager returns a manager with only the given disks registered.
func NewManager() *Manager {
	return &Manager{disks: map[string]Disk{}}
}

// Connect boots the disks described by config. The local disk is always
// available; s3 and redis are booted only when selected or configured, and
// a failing optional disk is logged and left out.
func Connect(ctx context.Context) (*Manager, error) {
	m := NewManager()
	m.Register("local", NewLocalDisk(config.StorageLocalRoot()))

	want := config.SlotDriver()

	if want == "s3" || config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
		})
		if err != nil {
			if want == "s3" {
				return nil, err
			}
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.Register("s3", d)
		}
	}

	if want == "redis" {
		d, err := NewRedisDisk(ctx, RedisOptions{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
			DB:       config.RedisDB(),
		})
		if err != nil {
			return nil, err
		}
		m.Register("redis", d)
	}

	return m, nil
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	d, ok := m.disks[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Register plugs in a disk under name, replacing any previous one.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}
