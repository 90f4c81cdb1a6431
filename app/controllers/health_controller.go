package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

type HealthController struct {
	inventory *services.InventoryService
}

func NewHealthController(inv *services.InventoryService) *HealthController {
	return &HealthController{inventory: inv}
}

// Check answers 200 while the store is usable and 503 with the reason once
// the engine failed to start.
func (hc *HealthController) Check(c *ctx.Context) {
	if err := hc.inventory.Ready(); err != nil {
		c.Error(http.StatusServiceUnavailable, err.Error())
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
