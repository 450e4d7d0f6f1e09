package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/notify"
	"github.com/badgerspace/backend/internal/repository"
	"github.com/google/uuid"
)

// MessageServiceImpl is the implementation of MessageService.
type MessageServiceImpl struct {
	messageRepo repository.MessageRepository
	publisher   notify.Publisher
}

// NewMessageService creates a MessageServiceImpl (DI: MessageRepository and
// the notifier's publish side).
func NewMessageService(messageRepo repository.MessageRepository, publisher notify.Publisher) MessageService {
	return &MessageServiceImpl{messageRepo: messageRepo, publisher: publisher}
}

// Send validates, persists and then publishes the message to the thread
// topic and the global feed. Publishing is fire-and-forget: the message is
// durable once the insert commits, and listeners reconcile on their next
// fetch if a notification is lost.
func (s *MessageServiceImpl) Send(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error) {
	if senderID == "" {
		return nil, ErrUnauthenticated
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if listingID == "" {
		return nil, &ValidationError{Field: "listing_id", Reason: "required"}
	}
	if receiverID == "" {
		return nil, &ValidationError{Field: "receiver_id", Reason: "required"}
	}
	if receiverID == senderID {
		return nil, &ValidationError{Field: "receiver_id", Reason: "cannot message yourself"}
	}

	message := &model.Message{
		ID:         uuid.NewString(),
		ListingID:  listingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    trimmed,
		Read:       false,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, storeErr(err)
	}

	for _, topic := range []string{notify.ThreadTopic(listingID), notify.TopicMessages} {
		if err := s.publisher.Publish(ctx, topic, message); err != nil {
			slog.Warn("message publish failed", "topic", topic, "message_id", message.ID, "error", err)
		}
	}
	return message, nil
}

// FetchThread returns the history between selfID and counterpartyID.
func (s *MessageServiceImpl) FetchThread(ctx context.Context, listingID, selfID, counterpartyID string) ([]*model.Message, error) {
	if selfID == "" {
		return nil, ErrUnauthenticated
	}
	messages, err := s.messageRepo.ListThread(ctx, listingID, selfID, counterpartyID)
	if err != nil {
		return nil, storeErr(err)
	}
	return messages, nil
}

// MarkRead marks the thread's messages from senderID as read. Store failures
// are logged and swallowed; the next call catches anything missed.
func (s *MessageServiceImpl) MarkRead(ctx context.Context, listingID, senderID, selfID string) error {
	if selfID == "" {
		return ErrUnauthenticated
	}
	if err := s.messageRepo.MarkRead(ctx, listingID, senderID, selfID); err != nil {
		slog.Warn("mark read failed", "listing_id", listingID, "sender_id", senderID, "error", err)
	}
	return nil
}

// UnreadCount returns selfID's unread total across all threads.
func (s *MessageServiceImpl) UnreadCount(ctx context.Context, selfID string) (int, error) {
	if selfID == "" {
		return 0, ErrUnauthenticated
	}
	count, err := s.messageRepo.CountUnread(ctx, selfID)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// ListConversations scans selfID's message history and aggregates it.
func (s *MessageServiceImpl) ListConversations(ctx context.Context, selfID string) ([]*model.Conversation, error) {
	if selfID == "" {
		return nil, ErrUnauthenticated
	}
	messages, err := s.messageRepo.ListByParticipant(ctx, selfID)
	if err != nil {
		return nil, storeErr(err)
	}
	return AggregateConversations(selfID, messages), nil
}
