package controllers

import (
	"github.com/shashiranjanraj/estoque/app/resources"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// ContentTypeSQLite is sent with exported images.
const ContentTypeSQLite = "application/x-sqlite3"

type DatabaseController struct {
	inventory *services.InventoryService
}

func NewDatabaseController(inv *services.InventoryService) *DatabaseController {
	return &DatabaseController{inventory: inv}
}

// Export downloads the live image as a SQLite file.
func (dc *DatabaseController) Export(c *ctx.Context) {
	data, err := dc.inventory.Export(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.SetHeader("Cache-Control", "no-store")
	c.Attachment(config.ExportFilename(), ContentTypeSQLite, data)
}

// Import replaces the live image with the uploaded file, sent either as the
// raw body or as multipart field "file".
func (dc *DatabaseController) Import(c *ctx.Context) {
	data, ok := c.BindUpload("file", config.MaxImportBytes())
	if !ok {
		return
	}
	snap, err := dc.inventory.Import(c.Context(), data)
	if err != nil {
		logger.WithCtx(c.Context()).Warn("database import rejected", "bytes", len(data), "error", err)
		fail(c, err)
		return
	}
	c.Success(resources.Snapshot(snap))
}
