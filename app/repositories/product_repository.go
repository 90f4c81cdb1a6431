package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/orm"
)

// ProductRepository runs the product statements against whichever image
// handle it is given. It holds no handle of its own, so the caller decides
// which image is live.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// productColumns reads NULL categories from older images as the default.
const productColumns = "id, name, unitPrice, quantity, COALESCE(NULLIF(TRIM(category), ''), '" + models.DefaultCategory + "') AS category"

// List returns every product, newest id first. Read failures are logged and
// yield an empty list so callers can always render something.
func (r *ProductRepository) List(ctx context.Context, db *gorm.DB) []models.Product {
	products := make([]models.Product, 0)
	err := orm.On(ctx, db).
		Model(&models.Product{}).
		Select(productColumns).
		Order("id DESC").
		Get(&products)
	if err != nil {
		logger.WithCtx(ctx).Error("products: list failed", "error", err)
		return make([]models.Product, 0)
	}
	return products
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, db *gorm.DB, id int64) (models.Product, error) {
	var product models.Product
	err := orm.On(ctx, db).
		Model(&models.Product{}).
		Select(productColumns).
		Where("id = ?", id).
		First(&product)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, models.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", models.ErrStatement, err)
	}
	return product, nil
}

// Create inserts a new product; the engine assigns the id.
func (r *ProductRepository) Create(ctx context.Context, db *gorm.DB, fields models.ProductFields) (models.Product, error) {
	product := models.Product{
		Name:      fields.Name,
		UnitPrice: fields.UnitPrice,
		Quantity:  fields.Quantity,
		Category:  fields.Category,
	}
	if err := orm.On(ctx, db).Create(&product); err != nil {
		return models.Product{}, fmt.Errorf("%w: %v", models.ErrStatement, err)
	}
	return product, nil
}

// Update replaces every field but id. Updating an id that does not exist
// changes nothing and is not an error; the returned count says which case
// happened.
func (r *ProductRepository) Update(ctx context.Context, db *gorm.DB, id int64, fields models.ProductFields) (int64, error) {
	n, err := orm.On(ctx, db).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":      fields.Name,
			"unitPrice": fields.UnitPrice,
			"quantity":  fields.Quantity,
			"category":  fields.Category,
		})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrStatement, err)
	}
	return n, nil
}

// Delete removes the product with id. A missing id is a no-op.
func (r *ProductRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	n, err := orm.On(ctx, db).
		Where("id = ?", id).
		Delete(&models.Product{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrStatement, err)
	}
	return n, nil
}
