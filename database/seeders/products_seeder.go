package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/orm"
)

func init() {
	Register("products", SeedProducts)
}

// DemoProducts is the catalogue shipped in the demonstration image.
var DemoProducts = []models.ProductFields{
	{Name: "Teclado Mecânico", UnitPrice: 250.00, Quantity: 10, Category: "Eletrônicos"},
	{Name: "Mouse Óptico", UnitPrice: 59.90, Quantity: 25, Category: "Eletrônicos"},
	{Name: "Monitor 24\"", UnitPrice: 899.00, Quantity: 4, Category: "Eletrônicos"},
	{Name: "Cadeira Ergonômica", UnitPrice: 1299.99, Quantity: 2, Category: "Móveis"},
	{Name: "Caderno Universitário", UnitPrice: 18.50, Quantity: 40, Category: "Papelaria"},
	{Name: "Caneta Esferográfica", UnitPrice: 2.35, Quantity: 120, Category: models.DefaultCategory},
}

// SeedProducts inserts the demo catalogue into the products table.
func SeedProducts(ctx context.Context, db *gorm.DB) error {
	rows := make([]models.Product, 0, len(DemoProducts))
	for _, f := range DemoProducts {
		f = f.Normalize()
		rows = append(rows, models.Product{
			Name:      f.Name,
			UnitPrice: f.UnitPrice,
			Quantity:  f.Quantity,
			Category:  f.Category,
		})
	}
	return orm.On(ctx, db).Create(&rows)
}
