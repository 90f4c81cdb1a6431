package migrations

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_estoque_products_table", &CreateMirrorProductsTable{})
}

// MirroredProduct is one product as copied into the reporting mirror.
type MirroredProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	UnitPrice float64   `gorm:"not null"`
	Quantity  int64     `gorm:"not null"`
	Category  string    `gorm:"size:100;not null;index"`
	LowStock  bool      `gorm:"not null"`
	SyncedAt  time.Time `gorm:"not null"`
}

func (MirroredProduct) TableName() string { return "estoque_products" }

type CreateMirrorProductsTable struct{}

func (m *CreateMirrorProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&MirroredProduct{})
}

func (m *CreateMirrorProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&MirroredProduct{})
}
