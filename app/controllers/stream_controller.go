package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/estoque/app/resources"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

// StreamController pushes inventory snapshots to WebSocket clients.
type StreamController struct {
	inventory *services.InventoryService
	hub       *ws.Hub
}

func NewStreamController(inv *services.InventoryService, hub *ws.Hub) *StreamController {
	return &StreamController{inventory: inv, hub: hub}
}

// streamMessage is the frame sent to clients.
type streamMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encodeSnapshot(event string, snap services.Snapshot) ([]byte, error) {
	return json.Marshal(streamMessage{Event: event, Data: resources.Snapshot(snap)})
}

// Products upgrades the connection and sends the current snapshot. Later
// changes arrive through Broadcast. The snapshot is queued and the client
// joins the hub under the store lock, so every change frame it receives is
// newer than the first one.
func (sc *StreamController) Products(w http.ResponseWriter, r *http.Request) {
	client, err := ws.Accept(w, r, sc.hub)
	if err != nil {
		return
	}
	log := logger.WithCtx(r.Context())
	sc.inventory.View(r.Context(), func(snap services.Snapshot) {
		msg, err := encodeSnapshot("inventory.snapshot", snap)
		if err != nil {
			log.Error("ws: encode snapshot", "error", err)
			return
		}
		client.Send(msg)
		if err := client.Join(); err != nil {
			log.Warn("ws: join hub", "error", err)
		}
	})
}

// Broadcast is an event.Handler for services.EventInventoryChanged.
func (sc *StreamController) Broadcast(payload interface{}) {
	snap, ok := payload.(services.Snapshot)
	if !ok {
		return
	}
	msg, err := encodeSnapshot(services.EventInventoryChanged, snap)
	if err != nil {
		logger.Error("ws: encode snapshot", "error", err)
		return
	}
	sc.hub.Publish(msg)
}
