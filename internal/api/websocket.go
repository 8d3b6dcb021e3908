package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/faqbot/internal/chat"
	"github.com/ashureev/faqbot/internal/identity"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// HandleWebSocket handles GET /ws/chat. The current view is sent on connect;
// every inbound action is answered with the updated view.
func (h *ChatHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKey(r.Context())
	ip := identity.IPFromRequest(r)
	slog.Info("Chat socket connection request", "session_id", key, "ip", ip)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_id", key)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_id", key)
		}
	}()
	ws.SetReadLimit(h.maxBodySize)

	h.conns.Register(key, ws)
	defer h.conns.Unregister(key, ws)

	ctx := r.Context()
	if err := wsjson.Write(ctx, ws, h.snapshot(ctx, key)); err != nil {
		slog.Debug("Failed to send initial view", "error", err, "session_id", key)
		return
	}

	for {
		var a chat.Action
		if err := wsjson.Read(ctx, ws, &a); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("Chat socket read failed", "error", err, "session_id", key)
			}
			return
		}

		var view chat.View
		switch {
		case h.limiter != nil && !h.limiter.Allow(ip):
			view = h.snapshot(ctx, key)
			view.Error = "rate limit exceeded"
		case h.validate.Struct(a) != nil:
			view = h.snapshot(ctx, key)
			view.Error = "invalid action"
		default:
			view, _ = h.dispatch(ctx, key, a, "chat_ws")
		}

		if err := wsjson.Write(ctx, ws, view); err != nil {
			slog.Debug("Chat socket write failed", "error", err, "session_id", key)
			return
		}
	}
}
