package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/http"
	"github.com/shashiranjanraj/estoque/pkg/storage"
)

// SeedTimeout bounds the one-time seed download.
const SeedTimeout = 10 * time.Second

// SeedSource fetches the presentation image used when nothing is persisted.
type SeedSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Location is where the seed is read from, for logging.
	Location() string
}

// NewSeedSource picks an HTTP source for http(s) bases and a local disk
// rooted at base otherwise. limit caps the bytes accepted (0 = no cap).
func NewSeedSource(base, file string, limit int64) SeedSource {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		return &HTTPSeed{URL: base + file, Limit: limit}
	}
	if base == "" {
		base = "."
	}
	return &DiskSeed{Disk: storage.NewLocalDisk(base), Root: base, File: file}
}

// HTTPSeed downloads the seed once; no retry.
type HTTPSeed struct {
	URL   string
	Limit int64
}

func (s *HTTPSeed) Location() string { return s.URL }

func (s *HTTPSeed) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := http.Get(s.URL).
		WithContext(ctx).
		Timeout(SeedTimeout).
		Limit(s.Limit).
		Send()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSeedLoad, err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSeedLoad, err)
	}
	return resp.Raw, nil
}

// DiskSeed reads the seed from a storage disk.
type DiskSeed struct {
	Disk storage.Disk
	Root string
	File string
}

func (s *DiskSeed) Location() string {
	return strings.TrimSuffix(s.Root, "/") + "/" + s.File
}

func (s *DiskSeed) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.Disk.Get(ctx, s.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSeedLoad, err)
	}
	return data, nil
}
