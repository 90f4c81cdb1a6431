package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/database/migrations"
	"github.com/shashiranjanraj/estoque/database/seeders"
	"github.com/shashiranjanraj/estoque/pkg/database"
)

func TestRunAllSeedsDemoCatalogue(t *testing.T) {
	ctx := context.Background()
	img, err := database.Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer img.Close()
	require.NoError(t, migrations.EnsureProductsTable(ctx, img.DB()))

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, img.DB(), &out))
	assert.Contains(t, out.String(), "Running seeder: products")

	var products []models.Product
	require.NoError(t, img.DB().Order("id").Find(&products).Error)
	require.Len(t, products, len(seeders.DemoProducts))
	assert.Equal(t, "Teclado Mecânico", products[0].Name)
	assert.Equal(t, int64(10), products[0].Quantity)
}
