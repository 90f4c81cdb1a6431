package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/services"
)

func TestProductResourceAddsDerivedFields(t *testing.T) {
	got := ProductResource{}.ToArray(models.Product{
		ID: 1, Name: "Teclado Mecânico", UnitPrice: 250, Quantity: 3, Category: "Eletrônicos",
	})

	assert.Equal(t, 750.0, got["stockValue"])
	assert.Equal(t, true, got["lowStock"])
	assert.Equal(t, "Eletrônicos", got["category"])
}

func TestSnapshotShape(t *testing.T) {
	b, err := json.Marshal(Snapshot(services.Snapshot{
		Products: []models.Product{{ID: 2, Name: "Mouse", UnitPrice: 10.5, Quantity: 10, Category: "Geral"}},
		Totals:   models.Totals{Quantity: 10, Value: 105},
	}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"products": [{"id":2,"name":"Mouse","unitPrice":10.5,"quantity":10,"category":"Geral","stockValue":105,"lowStock":false}],
		"totals": {"quantity":10,"value":105}
	}`, string(b))
}

func TestSnapshotEmptyProducts(t *testing.T) {
	b, err := json.Marshal(Snapshot(services.Snapshot{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[],"totals":{"quantity":0,"value":0}}`, string(b))
}
