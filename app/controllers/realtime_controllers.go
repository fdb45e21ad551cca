package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/tienda/app/services"
	"github.com/shashiranjanraj/tienda/pkg/event"
	"github.com/shashiranjanraj/tienda/pkg/logger"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/ws"
)

// catalogMessage is the frame pushed to every live viewer: the full catalog,
// both on connect and after each mutation.
type catalogMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// RealtimeController runs the websocket hub and re-broadcasts the catalog
// whenever the catalog service reports a change. Viewers can also create
// and delete products over the socket; mutation trouble is logged, never
// surfaced to the frame that caused it.
type RealtimeController struct {
	catalog *services.CatalogService
	hub     *ws.Hub
}

func NewRealtime(catalog *services.CatalogService) *RealtimeController {
	rc := &RealtimeController{catalog: catalog, hub: ws.NewHub()}
	rc.hub.OnConnect = func(c *ws.Client) {
		data, err := rc.snapshot()
		if err != nil {
			logger.Error("catalog snapshot for new viewer failed", "error", err)
			return
		}
		c.Send(data)
	}
	rc.hub.OnMessage = rc.handleInbound
	event.Listen(services.EventCatalogChanged, func(interface{}) {
		rc.broadcast()
	})
	go rc.hub.Run()
	return rc
}

// handleInbound dispatches client frames. The catalog change event fired by
// the service takes care of re-broadcasting the updated collection.
func (rc *RealtimeController) handleInbound(data []byte) {
	var frame struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		logger.Warn("ws: malformed frame", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch frame.Event {
	case "crearProducto":
		var in services.ProductInput
		if err := json.Unmarshal(frame.Payload, &in); err != nil {
			logger.Warn("ws: malformed product payload", "error", err)
			return
		}
		if _, err := rc.catalog.Create(ctx, in); err != nil {
			logger.Warn("ws: create product failed", "error", err)
		}
	case "eliminarProducto":
		var id int64
		if err := json.Unmarshal(frame.Payload, &id); err != nil {
			logger.Warn("ws: malformed product id", "error", err)
			return
		}
		if err := rc.catalog.Delete(ctx, id); err != nil {
			logger.Warn("ws: delete product failed", "id", id, "error", err)
		}
	}
}

// ServeWS upgrades the request and registers the viewer with the hub.
func (rc *RealtimeController) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, rc.hub)
}

func (rc *RealtimeController) snapshot() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	products, err := rc.catalog.All(ctx, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(catalogMessage{Event: "products", Payload: products})
}

func (rc *RealtimeController) broadcast() {
	if rc.hub.ClientCount() == 0 {
		return
	}
	data, err := rc.snapshot()
	if err != nil {
		logger.Error("catalog broadcast failed", "error", err)
		return
	}
	rc.hub.Broadcast <- data
	metrics.CatalogBroadcasts.Inc()
}
