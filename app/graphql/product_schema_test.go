package graphql

import (
	"context"
	"encoding/json"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/services"
)

func newSchema(t *testing.T) gql.Schema {
	t.Helper()
	inv := services.NewInventoryService(services.Options{WorkDir: t.TempDir()})
	_, err := inv.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = inv.Close() })

	schema, err := NewSchema(inv)
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, schema gql.Schema, query string) (string, []string) {
	t.Helper()
	res := gql.Do(gql.Params{Schema: schema, RequestString: query, Context: context.Background()})
	var msgs []string
	for _, e := range res.Errors {
		msgs = append(msgs, e.Message)
	}
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b), msgs
}

func TestProductLifecycle(t *testing.T) {
	schema := newSchema(t)

	data, errs := run(t, schema, `mutation {
		createProduct(name: "Teclado Mecânico", unitPrice: "250,00", quantity: "10", category: "Eletrônicos") { id name stockValue lowStock }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"createProduct":{"id":1,"name":"Teclado Mecânico","stockValue":2500,"lowStock":false}}`, data)

	data, errs = run(t, schema, `{ products(q: "teclado") { id category } totals { quantity value } }`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"products":[{"id":1,"category":"Eletrônicos"}],"totals":{"quantity":10,"value":2500}}`, data)

	data, errs = run(t, schema, `mutation {
		updateProduct(id: 1, name: "Teclado Mecânico", unitPrice: "250", quantity: "3") { products { quantity category lowStock } totals { value } }
	}`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"updateProduct":{"products":[{"quantity":3,"category":"Geral","lowStock":true}],"totals":{"value":750}}}`, data)

	data, errs = run(t, schema, `mutation { deleteProduct(id: 1) { products { id } totals { quantity value } } }`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"deleteProduct":{"products":[],"totals":{"quantity":0,"value":0}}}`, data)
}

func TestProductByIDMissingIsNull(t *testing.T) {
	data, errs := run(t, newSchema(t), `{ product(id: 42) { id } }`)
	require.Empty(t, errs)
	assert.JSONEq(t, `{"product":null}`, data)
}

func TestCreateProductValidation(t *testing.T) {
	_, errs := run(t, newSchema(t), `mutation { createProduct(name: "Mouse", unitPrice: "abc", quantity: "1") { id } }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unitPrice field must be a number")
}
