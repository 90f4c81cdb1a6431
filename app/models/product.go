package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/estoque/pkg/collection"
)

// DefaultCategory is stored when a product is saved without a category.
const DefaultCategory = "Geral"

// LowStockThreshold is the quantity below which a product is flagged.
const LowStockThreshold = 5

// Product is one row of the products table inside the database image.
// Column names follow the on-disk schema.
type Product struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"column:name;not null"               json:"name"`
	UnitPrice float64 `gorm:"column:unitPrice;not null"          json:"unitPrice"`
	Quantity  int64   `gorm:"column:quantity;not null"           json:"quantity"`
	Category  string  `gorm:"column:category"                    json:"category"`
}

func (Product) TableName() string { return "products" }

// LowStock reports whether the product should be highlighted for reorder.
func (p Product) LowStock() bool { return p.Quantity < LowStockThreshold }

// StockValue is quantity × unit price.
func (p Product) StockValue() decimal.Decimal {
	return decimal.NewFromFloat(p.UnitPrice).Mul(decimal.NewFromInt(p.Quantity))
}

// ProductFields are the editable attributes of a product.
type ProductFields struct {
	Name      string
	UnitPrice float64
	Quantity  int64
	Category  string
}

// Normalize trims text fields and applies the default category.
func (f ProductFields) Normalize() ProductFields {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = DefaultCategory
	}
	return f
}

// Validate checks the invariants every stored row must satisfy.
func (f ProductFields) Validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "The name field is required."
	}
	if f.UnitPrice < 0 {
		errs["unitPrice"] = "The unitPrice must be greater than or equal to 0."
	}
	if f.Quantity < 0 {
		errs["quantity"] = "The quantity must be greater than or equal to 0."
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Totals summarises the whole inventory.
type Totals struct {
	Quantity int64   `json:"quantity"`
	Value    float64 `json:"value"`
}

// ComputeTotals sums quantities and stock value, rounding value to cents.
func ComputeTotals(products []Product) Totals {
	qty := collection.Reduce(products, int64(0), func(acc int64, p Product) int64 {
		return acc + p.Quantity
	})
	value := collection.Reduce(products, decimal.Zero, func(acc decimal.Decimal, p Product) decimal.Decimal {
		return acc.Add(p.StockValue())
	})
	return Totals{Quantity: qty, Value: value.Round(2).InexactFloat64()}
}
