package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/resources"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

type ProductController struct {
	inventory *services.InventoryService
}

func NewProductController(inv *services.InventoryService) *ProductController {
	return &ProductController{inventory: inv}
}

// Index lists products filtered by ?q= with totals for the whole inventory.
func (pc *ProductController) Index(c *ctx.Context) {
	if err := pc.inventory.Ready(); err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Snapshot(pc.inventory.List(c.Context(), c.Query("q"))))
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamInt64("id")
	if !ok {
		c.Error(http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := pc.inventory.Get(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Product(p))
}

// Store creates a product and answers 201 with the product and the new
// snapshot.
func (pc *ProductController) Store(c *ctx.Context) {
	fields, ok := parseForm(c)
	if !ok {
		return
	}
	p, snap, err := pc.inventory.Create(c.Context(), fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(map[string]any{
		"product":  resources.Product(p),
		"products": resources.Products(snap.Products),
		"totals":   snap.Totals,
	})
}

// Update replaces every editable field. An unknown id is not an error.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamInt64("id")
	if !ok {
		c.Error(http.StatusBadRequest, "invalid product id")
		return
	}
	fields, ok := parseForm(c)
	if !ok {
		return
	}
	snap, err := pc.inventory.Update(c.Context(), id, fields)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Snapshot(snap))
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamInt64("id")
	if !ok {
		c.Error(http.StatusBadRequest, "invalid product id")
		return
	}
	snap, err := pc.inventory.Delete(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Snapshot(snap))
}

func (pc *ProductController) Totals(c *ctx.Context) {
	if err := pc.inventory.Ready(); err != nil {
		fail(c, err)
		return
	}
	c.Success(pc.inventory.Totals(c.Context()))
}

func parseForm(c *ctx.Context) (models.ProductFields, bool) {
	var form models.ProductForm
	if !c.BindJSON(&form) {
		return models.ProductFields{}, false
	}
	fields, err := form.Parse()
	if err != nil {
		fail(c, err)
		return models.ProductFields{}, false
	}
	return fields, true
}
