// Package graphql exposes the inventory through a graphql-go schema.
package graphql

import (
	"errors"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/resources"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/graphql"
	"github.com/shashiranjanraj/estoque/pkg/resource"
)

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":         &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"name":       &gql.Field{Type: gql.NewNonNull(gql.String)},
		"unitPrice":  &gql.Field{Type: gql.NewNonNull(gql.Float)},
		"quantity":   &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"category":   &gql.Field{Type: gql.NewNonNull(gql.String)},
		"stockValue": &gql.Field{Type: gql.NewNonNull(gql.Float)},
		"lowStock":   &gql.Field{Type: gql.NewNonNull(gql.Boolean)},
	},
})

var totalsType = gql.NewObject(gql.ObjectConfig{
	Name: "Totals",
	Fields: gql.Fields{
		"quantity": &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"value":    &gql.Field{Type: gql.NewNonNull(gql.Float)},
	},
})

var snapshotType = gql.NewObject(gql.ObjectConfig{
	Name: "Snapshot",
	Fields: gql.Fields{
		"products": &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(productType)))},
		"totals":   &gql.Field{Type: gql.NewNonNull(totalsType)},
	},
})

// productArgs are shared by createProduct and updateProduct. Prices and
// quantities are strings so the same form rules as the REST API apply
// (decimal comma, no coercion of junk).
var productArgs = gql.FieldConfigArgument{
	"name":      &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	"unitPrice": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	"quantity":  &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
	"category":  &gql.ArgumentConfig{Type: gql.String},
}

// NewSchema builds the schema resolving against inv.
func NewSchema(inv *services.InventoryService) (gql.Schema, error) {
	r := &resolver{inv: inv}

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(productType))),
				Args: gql.FieldConfigArgument{"q": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: r.products,
			},
			"product": &gql.Field{
				Type:    productType,
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}},
				Resolve: r.product,
			},
			"totals": &gql.Field{
				Type:    gql.NewNonNull(totalsType),
				Resolve: r.totals,
			},
		},
	})

	updateArgs := gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}}
	for k, v := range productArgs {
		updateArgs[k] = v
	}

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"createProduct": &gql.Field{
				Type:    gql.NewNonNull(productType),
				Args:    productArgs,
				Resolve: r.createProduct,
			},
			"updateProduct": &gql.Field{
				Type:    gql.NewNonNull(snapshotType),
				Args:    updateArgs,
				Resolve: r.updateProduct,
			},
			"deleteProduct": &gql.Field{
				Type:    gql.NewNonNull(snapshotType),
				Args:    gql.FieldConfigArgument{"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)}},
				Resolve: r.deleteProduct,
			},
		},
	})

	return graphql.NewSchema(query, mutation)
}

type resolver struct {
	inv *services.InventoryService
}

func (r *resolver) products(p gql.ResolveParams) (interface{}, error) {
	q, _ := p.Args["q"].(string)
	if err := r.inv.Ready(); err != nil {
		return nil, err
	}
	return resources.Products(r.inv.List(p.Context, q).Products).Items(), nil
}

func (r *resolver) product(p gql.ResolveParams) (interface{}, error) {
	prod, err := r.inv.Get(p.Context, idArg(p))
	if errors.Is(err, models.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resources.ProductResource{}.ToArray(prod), nil
}

func (r *resolver) totals(p gql.ResolveParams) (interface{}, error) {
	if err := r.inv.Ready(); err != nil {
		return nil, err
	}
	return r.inv.Totals(p.Context), nil
}

func (r *resolver) createProduct(p gql.ResolveParams) (interface{}, error) {
	fields, err := formFromArgs(p.Args).Parse()
	if err != nil {
		return nil, err
	}
	prod, _, err := r.inv.Create(p.Context, fields)
	if err != nil {
		return nil, err
	}
	return resources.ProductResource{}.ToArray(prod), nil
}

func (r *resolver) updateProduct(p gql.ResolveParams) (interface{}, error) {
	fields, err := formFromArgs(p.Args).Parse()
	if err != nil {
		return nil, err
	}
	snap, err := r.inv.Update(p.Context, idArg(p), fields)
	if err != nil {
		return nil, err
	}
	return snapshotMap(snap), nil
}

func (r *resolver) deleteProduct(p gql.ResolveParams) (interface{}, error) {
	snap, err := r.inv.Delete(p.Context, idArg(p))
	if err != nil {
		return nil, err
	}
	return snapshotMap(snap), nil
}

func idArg(p gql.ResolveParams) int64 {
	id, _ := p.Args["id"].(int)
	return int64(id)
}

func formFromArgs(args map[string]interface{}) models.ProductForm {
	str := func(k string) string {
		s, _ := args[k].(string)
		return s
	}
	return models.ProductForm{
		Name:      str("name"),
		UnitPrice: models.FormValue(str("unitPrice")),
		Quantity:  models.FormValue(str("quantity")),
		Category:  str("category"),
	}
}

// snapshotMap flattens a snapshot into maps the default resolvers can read.
func snapshotMap(s services.Snapshot) resource.Map {
	return resource.Map{
		"products": resources.Products(s.Products).Items(),
		"totals":   s.Totals,
	}
}
