package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/database/migrations"
	"github.com/shashiranjanraj/estoque/pkg/collection"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
	"github.com/shashiranjanraj/estoque/pkg/orm"
)

// ErrMirrorNotMigrated is returned by Sync before `estoque migrate` has run
// against the mirror database.
var ErrMirrorNotMigrated = errors.New("mirror: estoque_products table missing, run migrate first")

// MirrorService copies the inventory into an external reporting database.
// The mirror is write-only from here; nothing flows back into the image.
type MirrorService struct {
	inventory *InventoryService
	db        *gorm.DB
	now       func() time.Time
}

func NewMirrorService(inventory *InventoryService, db *gorm.DB) *MirrorService {
	return &MirrorService{inventory: inventory, db: db, now: time.Now}
}

// Sync replaces every mirrored row with the current product list in one
// transaction and returns the number of rows written.
func (m *MirrorService) Sync(ctx context.Context) (int, error) {
	if err := m.inventory.Ready(); err != nil {
		return 0, err
	}
	if !m.db.Migrator().HasTable(&migrations.MirroredProduct{}) {
		return 0, ErrMirrorNotMigrated
	}

	syncedAt := m.now().UTC()
	rows := collection.Map(m.inventory.List(ctx, "").Products, func(p models.Product) migrations.MirroredProduct {
		return migrations.MirroredProduct{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  p.Quantity,
			Category:  p.Category,
			LowStock:  p.LowStock(),
			SyncedAt:  syncedAt,
		}
	})

	err := orm.On(ctx, m.db).Transaction(func(tx *orm.Query) error {
		if _, err := tx.Where("1 = 1").Delete(&migrations.MirroredProduct{}); err != nil {
			return fmt.Errorf("clear mirror: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows); err != nil {
			return fmt.Errorf("write mirror: %w", err)
		}
		return nil
	})
	metrics.RecordStoreOp("mirror", err)
	if err != nil {
		return 0, err
	}

	logger.WithCtx(ctx).Info("mirror: synced", "rows", len(rows))
	return len(rows), nil
}
