package server

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/event"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/storage"
)

// App is the set of long-lived objects shared by the HTTP server and the
// CLI commands.
type App struct {
	Inventory *services.InventoryService
	Events    *event.Bus
}

// Boot loads config, connects the slot disk and opens the inventory store.
// An engine failure is not returned: the store stays disabled and every
// surface reports it. Only configuration and disk errors abort the boot.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	disks, err := storage.Connect(ctx)
	if err != nil {
		return nil, err
	}
	disk, err := disks.Use(config.SlotDriver())
	if err != nil {
		return nil, err
	}

	events := event.New()
	inv := services.NewInventoryService(services.Options{
		WorkDir: config.WorkDir(),
		Slot:    services.NewSlot(disk, config.SlotKey()),
		Seed:    services.NewSeedSource(config.SeedBase(), config.SeedFile(), config.MaxImportBytes()),
		Events:  events,
	})

	if _, err := inv.Open(ctx); err != nil {
		logger.Error("boot: inventory store unavailable", "error", err)
	}
	return &App{Inventory: inv, Events: events}, nil
}

// Close releases the live image.
func (a *App) Close() {
	if err := a.Inventory.Close(); err != nil {
		logger.Warn("boot: closing inventory", "error", err)
	}
}
