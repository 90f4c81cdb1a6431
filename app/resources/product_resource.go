package resources

import (
	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/resource"
)

// ProductResource is the API shape of a product. It adds the derived
// stockValue and lowStock fields to the stored columns.
type ProductResource struct{}

func (ProductResource) ToArray(p models.Product) resource.Map {
	return resource.Map{
		"id":         p.ID,
		"name":       p.Name,
		"unitPrice":  p.UnitPrice,
		"quantity":   p.Quantity,
		"category":   p.Category,
		"stockValue": p.StockValue().Round(2).InexactFloat64(),
		"lowStock":   p.LowStock(),
	}
}

// Product wraps one product.
func Product(p models.Product) *resource.Resource[models.Product] {
	return resource.New[models.Product](ProductResource{}, p)
}

// Products wraps a product list.
func Products(ps []models.Product) *resource.Collection[models.Product] {
	return resource.CollectionOf[models.Product](ProductResource{}, ps)
}

// Snapshot is the payload returned after reads and mutations:
// {"products": [...], "totals": {...}}.
func Snapshot(s services.Snapshot) resource.Map {
	return resource.Map{
		"products": Products(s.Products),
		"totals":   s.Totals,
	}
}
