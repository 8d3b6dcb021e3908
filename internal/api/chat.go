package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ashureev/faqbot/internal/chat"
	"github.com/ashureev/faqbot/internal/convlog"
	"github.com/ashureev/faqbot/internal/domain"
	"github.com/ashureev/faqbot/internal/identity"
	"github.com/ashureev/faqbot/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (64KB).
const defaultMaxRequestBodySize = 64 << 10

// ChatOptions configures a ChatHandler.
type ChatOptions struct {
	MaxRequestBodySize int64
	AllowedOrigins     []string
	Limiter            *RateLimiter
	Conns              *ConnRegistry
	Log                convlog.Logger
}

// ChatHandler exposes the conversation engine over HTTP and WebSocket.
type ChatHandler struct {
	engine      *chat.Engine
	sessions    store.Repository
	validate    *validator.Validate
	limiter     *RateLimiter
	conns       *ConnRegistry
	log         convlog.Logger
	maxBodySize int64
	origins     []string
}

// NewChatHandler creates a chat handler.
func NewChatHandler(engine *chat.Engine, sessions store.Repository, opts ChatOptions) *ChatHandler {
	if opts.MaxRequestBodySize <= 0 {
		opts.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if opts.Conns == nil {
		opts.Conns = NewConnRegistry()
	}
	if opts.Log == nil {
		opts.Log = convlog.Noop{}
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return &ChatHandler{
		engine:      engine,
		sessions:    sessions,
		validate:    validator.New(),
		limiter:     opts.Limiter,
		conns:       opts.Conns,
		log:         opts.Log,
		maxBodySize: opts.MaxRequestBodySize,
		origins:     opts.AllowedOrigins,
	}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/state", h.HandleState)
		r.Post("/actions", h.HandleAction)
		r.Post("/reset", h.HandleReset)
	})
	r.Get("/ws/chat", h.HandleWebSocket)
}

// HandleState handles GET /api/chat/state.
func (h *ChatHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.snapshot(r.Context(), identity.SessionKey(r.Context())))
}

// HandleAction handles POST /api/chat/actions.
func (h *ChatHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(identity.IPFromRequest(r)) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var a chat.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(a); err != nil {
		Error(w, http.StatusBadRequest, "invalid action: "+err.Error())
		return
	}

	view, err := h.dispatch(r.Context(), identity.SessionKey(r.Context()), a, "chat_http")
	JSON(w, statusFor(err), view)
}

// HandleReset handles POST /api/chat/reset and starts a fresh session.
func (h *ChatHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	key := identity.SessionKey(r.Context())
	h.sessions.Delete(key)
	slog.Info("Chat session reset", "session_id", key)
	JSON(w, http.StatusOK, h.snapshot(r.Context(), key))
}

func (h *ChatHandler) newSession(key string) func() *domain.Session {
	return func() *domain.Session { return h.engine.NewSession(key) }
}

func (h *ChatHandler) snapshot(ctx context.Context, key string) chat.View {
	var view chat.View
	_ = h.sessions.Update(key, h.newSession(key), func(s *domain.Session) error {
		view = h.engine.Snapshot(ctx, s)
		return nil
	})
	return view
}

// dispatch applies one action to the caller's session and records the turn.
func (h *ChatHandler) dispatch(ctx context.Context, key string, a chat.Action, channel string) (chat.View, error) {
	var view chat.View
	err := h.sessions.Update(key, h.newSession(key), func(s *domain.Session) error {
		before := s.TranscriptLen()
		v, err := h.engine.Handle(ctx, s, a)
		view = v
		h.recordTurn(ctx, s, a, channel, v.Transcript[before:], err)
		return err
	})
	if err != nil && view.Error == "" {
		view.Error = err.Error()
	}
	return view, err
}

func (h *ChatHandler) recordTurn(ctx context.Context, s *domain.Session, a chat.Action, channel string, added []domain.Message, actionErr error) {
	meta := map[string]any{
		"action":     string(a.Type),
		"state":      string(s.State()),
		"request_id": chiMiddleware.GetReqID(ctx),
	}
	if actionErr != nil {
		meta["error"] = actionErr.Error()
		slog.Debug("Chat action rejected", "session_id", s.ID, "action", a.Type, "error", actionErr)
	}
	h.log.Log(convlog.Event{
		SessionID: s.ID,
		UserName:  s.UserName,
		Channel:   channel,
		Direction: "outbound",
		EventType: "chat_action",
		Meta:      meta,
	})

	for i, m := range added {
		direction := "inbound"
		if m.Role == domain.RoleUser {
			direction = "outbound"
		}
		h.log.Log(convlog.Event{
			SessionID:  s.ID,
			UserName:   s.UserName,
			Channel:    channel,
			Direction:  direction,
			EventType:  fmt.Sprintf("chat_%s_message", m.Role),
			ContentRaw: m.Content,
			Meta:       map[string]any{"index": s.TranscriptLen() - len(added) + i},
		})
	}
}
