// Package mockserver provides a local development stand-in for the chat
// endpoint. It speaks the same wire protocol as the real server: raw text
// frames in, one raw text frame out per message.
package mockserver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/ashureev/adrin-chat/internal/middleware"
	"github.com/coder/websocket"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler upgrades requests to WebSocket chat sessions.
type Handler struct {
	sessions       *SessionManager
	allowedOrigins []string
	newResponder   func() Responder
	logger         *slog.Logger
	seq            atomic.Int64
}

// NewHandler creates a chat handler. Each connection gets its own responder
// from newResponder; nil uses NewReceptionist.
func NewHandler(sessions *SessionManager, allowedOrigins []string, newResponder func() Responder, logger *slog.Logger) *Handler {
	if newResponder == nil {
		newResponder = func() Responder { return NewReceptionist() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions:       sessions,
		allowedOrigins: allowedOrigins,
		newResponder:   newResponder,
		logger:         logger,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chiMiddleware.GetReqID(r.Context())
	if sessionID == "" {
		sessionID = "session-" + strconv.FormatInt(h.seq.Add(1), 10)
	}
	h.logger.Info("WebSocket connection request", "session_id", sessionID, "ip", r.RemoteAddr)

	if origin := r.Header.Get("Origin"); origin != "" && !middleware.OriginAllowed(h.allowedOrigins, origin) {
		h.logger.Warn("WebSocket origin rejected", "origin", origin)
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin checked above
	})
	if err != nil {
		h.logger.Error("Failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			h.logger.Debug("Failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	h.sessions.Register(sessionID, ws)
	defer h.sessions.Unregister(sessionID, ws)

	h.chatLoop(r.Context(), ws, sessionID)
	h.logger.Info("Chat session ended", "session_id", sessionID)
}

func (h *Handler) chatLoop(ctx context.Context, ws *websocket.Conn, sessionID string) {
	responder := h.newResponder()
	for {
		typ, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.logger.Debug("WebSocket closed by client", "session_id", sessionID)
			} else {
				h.logger.Debug("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}
		if typ != websocket.MessageText {
			h.logger.Debug("Ignoring binary frame", "session_id", sessionID, "bytes", len(message))
			continue
		}

		reply := responder.Reply(string(message))
		if err := ws.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
			h.logger.Debug("WebSocket write error", "error", err, "session_id", sessionID)
			return
		}
	}
}
