package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/database/migrations"
	"github.com/shashiranjanraj/estoque/pkg/collection"
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/event"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
)

// EventInventoryChanged is fired with the new Snapshot after every
// successful mutation.
const EventInventoryChanged = "inventory.changed"

// Snapshot is the full product list plus totals, as returned after every
// operation.
type Snapshot struct {
	Products []models.Product `json:"products"`
	Totals   models.Totals    `json:"totals"`
}

// Options wires the collaborators of an InventoryService.
type Options struct {
	// WorkDir holds the scratch files of live images ("" = os.TempDir()).
	WorkDir string
	// Slot is where the image is persisted. Nil disables persistence.
	Slot *Slot
	// Seed is tried when the slot is empty. Nil skips straight to a fresh image.
	Seed SeedSource
	// Events receives EventInventoryChanged. Optional.
	Events *event.Bus
}

// InventoryService owns the single live image and serializes every
// operation on it.
type InventoryService struct {
	mu      sync.Mutex
	opts    Options
	repo    *repositories.ProductRepository
	img     *database.Image
	initErr error
}

func NewInventoryService(opts Options) *InventoryService {
	return &InventoryService{
		opts: opts,
		repo: repositories.NewProductRepository(),
	}
}

// Open obtains the live image: the persisted slot first, then the seed,
// then a fresh empty image. The products table is ensured on whichever
// image wins. Calling Open again on an open store just returns a snapshot.
func (s *InventoryService) Open(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.img != nil {
		return s.snapshot(ctx, ""), nil
	}
	if s.initErr != nil {
		return emptySnapshot(), s.initErr
	}

	img, origin := s.restore(ctx)
	if img == nil {
		fresh, err := database.Open(ctx, s.opts.WorkDir)
		if err == nil {
			err = migrations.EnsureProductsTable(ctx, fresh.DB())
			if err != nil {
				_ = fresh.Close()
			}
		}
		if err != nil {
			s.initErr = fmt.Errorf("%w: %v", models.ErrEngineInit, err)
			metrics.RecordStoreOp("open", s.initErr)
			logger.WithCtx(ctx).Error("inventory: store disabled", "error", s.initErr)
			return emptySnapshot(), s.initErr
		}
		img, origin = fresh, "fresh"
	}

	s.img = img
	snap := s.snapshot(ctx, "")
	metrics.RecordStoreOp("open", nil)
	logger.WithCtx(ctx).Info("inventory: store opened", "origin", origin, "products", len(snap.Products))
	return snap, nil
}

// restore tries the slot, then the seed. Either one failing is logged and
// the next source is tried.
func (s *InventoryService) restore(ctx context.Context) (*database.Image, string) {
	log := logger.WithCtx(ctx)

	if s.opts.Slot != nil {
		data, found, err := s.opts.Slot.Load(ctx)
		switch {
		case err != nil:
			log.Warn("inventory: persisted image unreadable, trying seed", "slot", s.opts.Slot.Key(), "error", err)
		case found:
			img, err := s.adopt(ctx, data)
			if err == nil {
				return img, "slot"
			}
			log.Warn("inventory: persisted image rejected, trying seed", "slot", s.opts.Slot.Key(), "error", err)
		}
	}

	if s.opts.Seed != nil {
		data, err := s.opts.Seed.Fetch(ctx)
		if err == nil {
			var img *database.Image
			if img, err = s.adopt(ctx, data); err == nil {
				return img, "seed"
			}
			err = fmt.Errorf("%w: %v", models.ErrSeedLoad, err)
		}
		log.Warn("inventory: seed unavailable, starting empty", "seed", s.opts.Seed.Location(), "error", err)
	}

	return nil, ""
}

// adopt loads bytes into a new image and ensures the schema on it. On
// failure nothing is left behind.
func (s *InventoryService) adopt(ctx context.Context, data []byte) (*database.Image, error) {
	img, err := database.Load(ctx, s.opts.WorkDir, data)
	if err != nil {
		return nil, err
	}
	if err := migrations.EnsureProductsTable(ctx, img.DB()); err != nil {
		_ = img.Close()
		return nil, err
	}
	return img, nil
}

// Ready returns nil when the store is usable, or the error that disabled it.
func (s *InventoryService) Ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready()
}

func (s *InventoryService) ready() error {
	if s.initErr != nil {
		return s.initErr
	}
	if s.img == nil {
		return fmt.Errorf("%w: store is not open", models.ErrEngineInit)
	}
	return nil
}

// List returns products whose name or category contains query
// (case-insensitive; empty matches all). Totals always cover every product.
func (s *InventoryService) List(ctx context.Context, query string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready() != nil {
		return emptySnapshot()
	}
	return s.snapshot(ctx, query)
}

// View calls fn with the full snapshot while holding the store lock, so no
// mutation or EventInventoryChanged can happen before fn returns. fn must
// not call back into the service.
func (s *InventoryService) View(ctx context.Context, fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready() != nil {
		fn(emptySnapshot())
		return
	}
	fn(s.snapshot(ctx, ""))
}

// Get returns one product or models.ErrProductNotFound.
func (s *InventoryService) Get(ctx context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return models.Product{}, err
	}
	return s.repo.Find(ctx, s.img.DB(), id)
}

// Totals sums quantity and stock value over the whole inventory.
func (s *InventoryService) Totals(ctx context.Context) models.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready() != nil {
		return models.Totals{}
	}
	return models.ComputeTotals(s.repo.List(ctx, s.img.DB()))
}

// Create inserts a product, persists the image and returns the new product
// with the fresh snapshot.
func (s *InventoryService) Create(ctx context.Context, fields models.ProductFields) (models.Product, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return models.Product{}, emptySnapshot(), err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return models.Product{}, emptySnapshot(), err
	}

	product, err := s.repo.Create(ctx, s.img.DB(), fields)
	metrics.RecordStoreOp("create", err)
	if err != nil {
		return models.Product{}, emptySnapshot(), err
	}
	return product, s.afterMutation(ctx), nil
}

// Update replaces every field of product id. An unknown id changes nothing.
func (s *InventoryService) Update(ctx context.Context, id int64, fields models.ProductFields) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return emptySnapshot(), err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return emptySnapshot(), err
	}

	n, err := s.repo.Update(ctx, s.img.DB(), id, fields)
	metrics.RecordStoreOp("update", err)
	if err != nil {
		return emptySnapshot(), err
	}
	if n == 0 {
		logger.WithCtx(ctx).Debug("inventory: update matched no product", "id", id)
	}
	return s.afterMutation(ctx), nil
}

// Delete removes product id. An unknown id is not an error.
func (s *InventoryService) Delete(ctx context.Context, id int64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return emptySnapshot(), err
	}

	_, err := s.repo.Delete(ctx, s.img.DB(), id)
	metrics.RecordStoreOp("delete", err)
	if err != nil {
		return emptySnapshot(), err
	}
	return s.afterMutation(ctx), nil
}

// Export serializes the live image. The image itself is untouched.
func (s *InventoryService) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	data, err := s.img.Export(ctx)
	metrics.RecordStoreOp("export", err)
	if err != nil {
		return nil, err
	}
	metrics.ImageBytes.Set(float64(len(data)))
	return data, nil
}

// Import replaces the live image with data. The new image is fully loaded
// and checked before the swap; on any failure the current image stays live
// and models.ErrImport is returned.
func (s *InventoryService) Import(ctx context.Context, data []byte) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return emptySnapshot(), err
	}

	next, err := s.adopt(ctx, data)
	metrics.RecordStoreOp("import", err)
	if err != nil {
		return emptySnapshot(), fmt.Errorf("%w: %v", models.ErrImport, err)
	}

	prev := s.img
	s.img = next
	if err := prev.Close(); err != nil {
		logger.WithCtx(ctx).Warn("inventory: closing replaced image", "error", err)
	}

	logger.WithCtx(ctx).Info("inventory: image imported", "bytes", len(data))
	return s.afterMutation(ctx), nil
}

// Close releases the live image. The store must be reopened before use.
func (s *InventoryService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.img == nil {
		return nil
	}
	err := s.img.Close()
	s.img = nil
	return err
}

// afterMutation persists the image, re-lists and notifies listeners.
func (s *InventoryService) afterMutation(ctx context.Context) Snapshot {
	s.persist(ctx)
	snap := s.snapshot(ctx, "")
	s.opts.Events.Fire(EventInventoryChanged, snap)
	return snap
}

// persist writes the live image to the slot. Failures are logged and
// counted; the in-memory change is kept.
func (s *InventoryService) persist(ctx context.Context) {
	if s.opts.Slot == nil {
		return
	}

	data, err := s.img.Export(ctx)
	if err == nil {
		metrics.ImageBytes.Set(float64(len(data)))
		err = s.opts.Slot.Save(ctx, data)
	}
	metrics.RecordStoreOp("persist", err)
	if err != nil {
		metrics.PersistFailures.Inc()
		logger.WithCtx(ctx).Error("inventory: image not persisted",
			"slot", s.opts.Slot.Key(), "error", fmt.Errorf("%w: %v", models.ErrPersist, err))
	}
}

func (s *InventoryService) snapshot(ctx context.Context, query string) Snapshot {
	all := s.repo.List(ctx, s.img.DB())
	metrics.Products.Set(float64(len(all)))

	snap := Snapshot{Products: all, Totals: models.ComputeTotals(all)}
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		snap.Products = collection.Filter(all, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Category), q)
		})
	}
	return snap
}

func emptySnapshot() Snapshot {
	return Snapshot{Products: make([]models.Product, 0)}
}

// IsUnavailable reports whether err means the store is disabled.
func IsUnavailable(err error) bool {
	return errors.Is(err, models.ErrEngineInit)
}
