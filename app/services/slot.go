package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/estoque/pkg/storage"
)

// Slot is the single named entry the live image is persisted under. The
// value is a JSON array of byte values ([83,81,76,...]), the format the
// browser app wrote to local storage. Its produtos rows are moved into
// products when the image is opened.
type Slot struct {
	disk storage.Disk
	key  string
}

func NewSlot(disk storage.Disk, key string) *Slot {
	return &Slot{disk: disk, key: key}
}

// Key returns the slot name.
func (s *Slot) Key() string { return s.key }

// Load returns the persisted image. found is false when the slot is empty.
func (s *Slot) Load(ctx context.Context) (image []byte, found bool, err error) {
	raw, err := s.disk.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("slot %q: read: %w", s.key, err)
	}

	image, err = decodeByteArray(raw)
	if err != nil {
		return nil, true, fmt.Errorf("slot %q: %w", s.key, err)
	}
	return image, true, nil
}

// Save overwrites the slot with image.
func (s *Slot) Save(ctx context.Context, image []byte) error {
	if err := s.disk.Put(ctx, s.key, encodeByteArray(image)); err != nil {
		return fmt.Errorf("slot %q: write: %w", s.key, err)
	}
	return nil
}

// Clear empties the slot.
func (s *Slot) Clear(ctx context.Context) error {
	return s.disk.Delete(ctx, s.key)
}

// encodeByteArray writes b as a JSON array of numbers. encoding/json would
// emit base64 for a []byte.
func encodeByteArray(b []byte) []byte {
	out := make([]byte, 0, len(b)*4+2)
	out = append(out, '[')
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return append(out, ']')
}

// decodeByteArray accepts only a JSON array; values outside 0..255 fail.
func decodeByteArray(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("slot value is not a JSON byte array")
	}
	out := make([]byte, 0)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode slot value: %w", err)
	}
	return out, nil
}
