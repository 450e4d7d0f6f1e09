package handler

import (
	"encoding/json"
	"net/http"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

// MessageHandler serves the in-app messaging endpoints.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send handles POST /api/messages (auth required).
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		ListingID  string `json:"listing_id"`
		ReceiverID string `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	message, err := h.messageService.Send(r.Context(), req.ListingID, req.ReceiverID, req.Content, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// Thread handles GET /api/messages/thread?listing_id=&user_id= and returns
// the caller's history with user_id on that listing, oldest first.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listingID := r.URL.Query().Get("listing_id")
	otherID := r.URL.Query().Get("user_id")
	if listingID == "" || otherID == "" {
		writeError(w, http.StatusBadRequest, "listing_id_and_user_id_required")
		return
	}

	messages, err := h.messageService.FetchThread(r.Context(), listingID, userID, otherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// MarkRead handles POST /api/messages/read (auth required). Marks the
// thread's messages from sender_id to the caller as read; idempotent.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		ListingID string `json:"listing_id"`
		SenderID  string `json:"sender_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := h.messageService.MarkRead(r.Context(), req.ListingID, req.SenderID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnreadCount handles GET /api/messages/unread-count for the navbar badge.
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.messageService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Conversations handles GET /api/conversations: one summary row per
// (listing, counterparty), most recent activity first.
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conversations, err := h.messageService.ListConversations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if conversations == nil {
		conversations = []*model.Conversation{}
	}
	writeJSON(w, http.StatusOK, conversations)
}
