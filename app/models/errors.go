package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrEngineInit means the embedded engine could not start. The store
	// stays disabled for the life of the process.
	ErrEngineInit = errors.New("database engine failed to initialize")

	// ErrSeedLoad means the seed image could not be fetched or opened.
	ErrSeedLoad = errors.New("seed database could not be loaded")

	// ErrStatement wraps an engine error from insert, update or delete.
	ErrStatement = errors.New("statement failed")

	// ErrImport means the uploaded bytes are not a usable database image.
	ErrImport = errors.New("database file could not be imported")

	// ErrPersist means the image could not be written to the persisted slot.
	ErrPersist = errors.New("database image could not be persisted")

	ErrProductNotFound = errors.New("product not found")
)

// ValidationError carries field-level messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, " ")
}
