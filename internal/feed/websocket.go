package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const keepaliveInterval = 30 * time.Second

// WebSocketHandler upgrades /ws/activity connections and pushes hub
// events to the client as JSON frames.
type WebSocketHandler struct {
	hub *Hub
}

// NewWebSocketHandler creates a new activity feed handler.
func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	slog.Info("Activity feed connected", "ip", r.RemoteAddr)

	events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(events)

	ctx := r.Context()
	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Activity feed disconnected", "ip", r.RemoteAddr)
			return
		case event := <-events:
			if err := h.writeEvent(ctx, ws, event); err != nil {
				slog.Debug("Activity feed write failed", "error", err, "ip", r.RemoteAddr)
				return
			}
		case <-keepalive.C:
			if err := ws.Ping(ctx); err != nil {
				slog.Debug("Activity feed ping failed", "error", err, "ip", r.RemoteAddr)
				return
			}
		}
	}
}

func (h *WebSocketHandler) writeEvent(ctx context.Context, ws *websocket.Conn, event Event) error {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(writeCtx, ws, event)
}
