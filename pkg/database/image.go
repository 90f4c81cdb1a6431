package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrInvalidImage is returned by Load when the bytes are not a readable
// SQLite database file.
var ErrInvalidImage = errors.New("database: invalid image")

// sqliteHeader is the magic string every SQLite 3 file starts with.
const sqliteHeader = "SQLite format 3\x00"

// Image is a live embedded SQLite database backed by a private scratch file.
// It can be serialized to, and rebuilt from, the native SQLite file format.
type Image struct {
	db   *gorm.DB
	path string

	closeOnce sync.Once
	closeErr  error
}

// Open creates a new, empty image in dir (os.TempDir() when dir is empty).
func Open(ctx context.Context, dir string) (*Image, error) {
	path, err := scratchFile(dir)
	if err != nil {
		return nil, err
	}

	img, err := openFile(ctx, path)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return img, nil
}

// Load rebuilds an image from serialized bytes. The new image is fully
// opened and checked before it is returned, so a failure never leaves a
// half-built handle behind.
func Load(ctx context.Context, dir string, data []byte) (*Image, error) {
	if len(data) < len(sqliteHeader) || string(data[:len(sqliteHeader)]) != sqliteHeader {
		return nil, fmt.Errorf("%w: missing SQLite header", ErrInvalidImage)
	}

	path, err := scratchFile(dir)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("database: write image: %w", err)
	}

	img, err := openFile(ctx, path)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if err := img.check(ctx); err != nil {
		_ = img.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

func openFile(ctx context.Context, path string) (*Image, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("database: open image: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	// One connection keeps every statement on the same SQLite handle.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: ping image: %w", err)
	}

	return &Image{db: db, path: path}, nil
}

func (img *Image) check(ctx context.Context) error {
	var tables int64
	if err := img.db.WithContext(ctx).Raw("SELECT count(*) FROM sqlite_master").Scan(&tables).Error; err != nil {
		return err
	}

	var result string
	if err := img.db.WithContext(ctx).Raw("PRAGMA quick_check").Scan(&result).Error; err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("quick_check: %s", result)
	}
	return nil
}

// DB returns the gorm handle for running statements against the image.
func (img *Image) DB() *gorm.DB { return img.db }

// Export serializes the whole database into the native SQLite file format.
// The live image is not modified.
func (img *Image) Export(ctx context.Context) ([]byte, error) {
	target, err := scratchFile(filepath.Dir(img.path))
	if err != nil {
		return nil, err
	}
	// VACUUM INTO refuses to overwrite an existing file.
	_ = os.Remove(target)
	defer os.Remove(target)

	if err := img.db.WithContext(ctx).Exec("VACUUM INTO ?", target).Error; err != nil {
		return nil, fmt.Errorf("database: export image: %w", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("database: read exported image: %w", err)
	}
	return data, nil
}

// Close releases the connection and removes the scratch file.
// Safe to call more than once.
func (img *Image) Close() error {
	img.closeOnce.Do(func() {
		img.closeErr = Close(img.db)
		for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
			if err := os.Remove(img.path + suffix); err != nil && !os.IsNotExist(err) && img.closeErr == nil {
				img.closeErr = err
			}
		}
	})
	return img.closeErr
}

func scratchFile(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("database: work dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "estoque-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("database: scratch file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return name, nil
}
