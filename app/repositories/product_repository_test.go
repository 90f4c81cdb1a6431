package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/database/migrations"
	"github.com/shashiranjanraj/estoque/pkg/database"
)

func newImage(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	img, err := database.Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = img.Close() })
	require.NoError(t, migrations.EnsureProductsTable(ctx, img.DB()))
	return img.DB()
}

func TestCreateAssignsIDsAndListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newImage(t)
	repo := NewProductRepository()

	a, err := repo.Create(ctx, db, models.ProductFields{Name: "A", UnitPrice: 1, Quantity: 1, Category: "X"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, db, models.ProductFields{Name: "B", UnitPrice: 2, Quantity: 2, Category: "Y"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	list := repo.List(ctx, db)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
}

func TestListReadsNullCategoryAsDefault(t *testing.T) {
	ctx := context.Background()
	db := newImage(t)
	require.NoError(t, db.Exec(`INSERT INTO products (name, unitPrice, quantity, category) VALUES ('Legacy', 3.5, 2, NULL)`).Error)

	list := NewProductRepository().List(ctx, db)
	require.Len(t, list, 1)
	assert.Equal(t, models.DefaultCategory, list[0].Category)
}

func TestListUnreadableTableIsEmpty(t *testing.T) {
	ctx := context.Background()
	img, err := database.Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer img.Close()

	list := NewProductRepository().List(ctx, img.DB())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFindMissing(t *testing.T) {
	_, err := NewProductRepository().Find(context.Background(), newImage(t), 42)
	assert.True(t, errors.Is(err, models.ErrProductNotFound))
}

func TestUpdateReplacesFieldsAndMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newImage(t)
	repo := NewProductRepository()

	p, err := repo.Create(ctx, db, models.ProductFields{Name: "A", UnitPrice: 1, Quantity: 9, Category: "X"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, db, models.ProductFields{Name: "B", UnitPrice: 2, Quantity: 2, Category: "Y"})
	require.NoError(t, err)

	n, err := repo.Update(ctx, db, p.ID, models.ProductFields{Name: "A2", UnitPrice: 0, Quantity: 0, Category: "Z"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Find(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: p.ID, Name: "A2", UnitPrice: 0, Quantity: 0, Category: "Z"}, got)

	unchanged, err := repo.Find(ctx, db, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other, unchanged)

	n, err = repo.Update(ctx, db, 999, models.ProductFields{Name: "ghost"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, repo.List(ctx, db), 2)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	db := newImage(t)
	repo := NewProductRepository()

	p, err := repo.Create(ctx, db, models.ProductFields{Name: "A", UnitPrice: 1, Quantity: 1, Category: "X"})
	require.NoError(t, err)

	n, err := repo.Delete(ctx, db, 999)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, repo.List(ctx, db), 1)

	n, err = repo.Delete(ctx, db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, repo.List(ctx, db))
}

func TestStatementErrorWrapsEngineMessage(t *testing.T) {
	ctx := context.Background()
	img, err := database.Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer img.Close()

	_, err = NewProductRepository().Create(ctx, img.DB(), models.ProductFields{Name: "A"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStatement))
	assert.Contains(t, err.Error(), "products")
}
