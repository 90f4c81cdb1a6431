// Package resource provides API Resource transformers.
//
// A Resource controls exactly what JSON shape the API returns for a model:
//
//	type ProductResource struct{}
//	func (ProductResource) ToArray(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name}
//	}
//
// Respond:
//
//	resource.New[models.Product](ProductResource{}, product).Respond(w)
//	resource.CollectionOf[models.Product](ProductResource{}, products).WithMeta(meta).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
)

// Map is a convenient alias for the output of ToArray.
type Map = map[string]interface{}

// Transformer converts one model instance into a Map.
type Transformer[T any] interface {
	ToArray(v T) Map
}

// Func adapts a plain function to Transformer.
type Func[T any] func(v T) Map

func (f Func[T]) ToArray(v T) Map { return f(v) }

// ------------------- Single resource -------------------

// Resource wraps a single model with its transformer.
type Resource[T any] struct {
	transformer Transformer[T]
	data        T
	meta        Map
}

// New creates a Resource for a single model instance.
func New[T any](t Transformer[T], data T) *Resource[T] {
	return &Resource[T]{transformer: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource[T]) WithMeta(meta Map) *Resource[T] {
	r.meta = meta
	return r
}

// MarshalJSON implements json.Marshaler so Resource can be nested.
func (r *Resource[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Envelope returns {"data": ..., "meta": ...}.
func (r *Resource[T]) Envelope() Map {
	out := Map{"data": r.transformer.ToArray(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	return out
}

// Respond writes the resource as JSON with the given status.
func (r *Resource[T]) Respond(w http.ResponseWriter, status ...int) {
	writeJSON(w, statusOr(status, http.StatusOK), r.Envelope())
}

// ------------------- Collection resource -------------------

// Collection wraps a slice of models with a transformer.
type Collection[T any] struct {
	transformer Transformer[T]
	items       []T
	meta        Map
}

// CollectionOf creates a Collection from a slice.
func CollectionOf[T any](t Transformer[T], items []T) *Collection[T] {
	return &Collection[T]{transformer: t, items: items}
}

// WithMeta attaches extra metadata.
func (c *Collection[T]) WithMeta(meta Map) *Collection[T] {
	c.meta = meta
	return c
}

// Items transforms every element. An empty input yields an empty, non-nil
// slice so it encodes as [].
func (c *Collection[T]) Items() []Map {
	out := make([]Map, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.transformer.ToArray(item))
	}
	return out
}

// MarshalJSON implements json.Marshaler so a Collection can be nested.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// Envelope returns {"data": [...], "meta": ...}.
func (c *Collection[T]) Envelope() Map {
	out := Map{"data": c.Items()}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	return out
}

// Respond writes the collection as JSON with the given status.
func (c *Collection[T]) Respond(w http.ResponseWriter, status ...int) {
	writeJSON(w, statusOr(status, http.StatusOK), c.Envelope())
}

// ------------------- Helpers -------------------

func statusOr(status []int, fallback int) int {
	if len(status) > 0 {
		return status[0]
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
