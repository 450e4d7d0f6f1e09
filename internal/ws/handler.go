// Package ws streams realtime notifier events to browser clients over
// websockets: new messages for an open thread, or the caller's global feed
// for conversation-list and unread-badge refresh.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/badgerspace/backend/internal/notify"
	"github.com/badgerspace/backend/pkg/auth"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware already pins the frontend origin; the session
		// cookie gates the upgrade itself.
		return true
	},
}

// Handler upgrades authenticated requests and wires them to the notifier.
type Handler struct {
	notifier notify.Notifier
}

// NewHandler creates a websocket Handler.
func NewHandler(notifier notify.Notifier) *Handler {
	return &Handler{notifier: notifier}
}

// Serve handles GET /api/ws. With ?listing_id= the stream carries that
// listing's thread events; without it, every event involving the caller.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}
	listingID := r.URL.Query().Get("listing_id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	c := newClient(conn)

	forward := func(ev notify.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			return
		}
		c.enqueue(payload)
	}

	if listingID != "" {
		c.subs = append(c.subs, h.notifier.Subscribe(notify.ThreadTopic(listingID), forward))
	} else {
		c.subs = append(c.subs, h.notifier.Subscribe(notify.TopicMessages, func(ev notify.Event) {
			if ev.Message == nil {
				return
			}
			// The global feed only carries the caller's own traffic.
			if ev.Message.SenderID != userID && ev.Message.ReceiverID != userID {
				return
			}
			forward(ev)
		}))
	}

	go c.writePump()
	go c.readPump()
}
