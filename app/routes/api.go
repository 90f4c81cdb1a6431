package routes

import (
	"fmt"

	"github.com/shashiranjanraj/estoque/app/controllers"
	appgraphql "github.com/shashiranjanraj/estoque/app/graphql"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/auth"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
	"github.com/shashiranjanraj/estoque/pkg/event"
	"github.com/shashiranjanraj/estoque/pkg/graphql"
	"github.com/shashiranjanraj/estoque/pkg/middleware"
	"github.com/shashiranjanraj/estoque/pkg/rbac"
	"github.com/shashiranjanraj/estoque/pkg/router"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

// Deps are the long-lived objects the routes resolve against.
type Deps struct {
	Inventory *services.InventoryService
	Hub       *ws.Hub
	// Events carries inventory changes to the WebSocket hub. Optional.
	Events *event.Bus
}

// RegisterAPI mounts health, REST, GraphQL and WebSocket routes.
func RegisterAPI(r *router.Router, d Deps) error {
	products := controllers.NewProductController(d.Inventory)
	database := controllers.NewDatabaseController(d.Inventory)
	health := controllers.NewHealthController(d.Inventory)
	stream := controllers.NewStreamController(d.Inventory, d.Hub)

	schema, err := appgraphql.NewSchema(d.Inventory)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}

	var guard []router.Middleware
	if config.AuthEnabled() {
		guard = []router.Middleware{middleware.AuthMiddleware, rbac.HasRole(auth.RoleEditor)}
	}

	r.Get("/health", "health", ctx.Wrap(health.Check))

	api := r.Group("/api")
	api.Get("/products", "products.index", ctx.Wrap(products.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Get("/totals", "products.totals", ctx.Wrap(products.Totals))
	api.Get("/database/export", "database.export", ctx.Wrap(database.Export))

	editor := api.Group("", guard...)
	editor.Post("/products", "products.store", ctx.Wrap(products.Store))
	editor.Put("/products/{id}", "products.update", ctx.Wrap(products.Update))
	editor.Delete("/products/{id}", "products.destroy", ctx.Wrap(products.Destroy))
	editor.Post("/database/import", "database.import", ctx.Wrap(database.Import))

	// GraphQL carries mutations, so the whole endpoint sits behind the guard.
	r.Post("/graphql", "graphql", graphql.Handler(schema), guard...)
	r.Get("/ws/products", "ws.products", stream.Products)

	if d.Events != nil && d.Hub != nil {
		d.Events.Listen(services.EventInventoryChanged, stream.Broadcast)
	}
	return nil
}
