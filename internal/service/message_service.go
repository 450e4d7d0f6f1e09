package service

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
)

// MessageService holds the messaging rules: authenticated sends, thread
// fetches, read-state tracking and conversation summaries.
type MessageService interface {
	// Send persists a message from senderID and notifies subscribers.
	Send(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error)
	// FetchThread returns the two-party history on a listing, oldest first.
	FetchThread(ctx context.Context, listingID, selfID, counterpartyID string) ([]*model.Message, error)
	// MarkRead flips unread messages from senderID to selfID on the listing.
	// Idempotent and best-effort: only a missing identity is an error.
	MarkRead(ctx context.Context, listingID, senderID, selfID string) error
	UnreadCount(ctx context.Context, selfID string) (int, error)
	// ListConversations summarizes selfID's message history, one row per
	// (listing, counterparty), most recent activity first.
	ListConversations(ctx context.Context, selfID string) ([]*model.Conversation, error)
}
