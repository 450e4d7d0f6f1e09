package repository

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
)

// MessageRepository is the persistence interface for the message log.
// Messages are append-only; the only mutation is the read flag.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	// ListThread returns all messages on a listing exchanged between userA
	// and userB, oldest first (created_at then id for a stable order).
	ListThread(ctx context.Context, listingID, userA, userB string) ([]*model.Message, error)
	// ListByParticipant returns every message where userID is sender or
	// receiver, oldest first. Input to conversation aggregation.
	ListByParticipant(ctx context.Context, userID string) ([]*model.Message, error)
	// MarkRead flips read=false to true for messages on the listing from
	// senderID to receiverID. Idempotent; marking nothing is not an error.
	MarkRead(ctx context.Context, listingID, senderID, receiverID string) error
	CountUnread(ctx context.Context, receiverID string) (int, error)
}
