// Package notify delivers message-table change events to in-process
// listeners: open threads, the conversation list and the unread badge.
// Delivery is at-least-once; ordering is only guaranteed within one topic.
package notify

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
)

// TopicMessages receives every message insert, for conversation-list and
// unread-badge refresh.
const TopicMessages = "messages"

// ThreadTopic returns the per-listing topic carrying inserts for one
// listing's threads.
func ThreadTopic(listingID string) string {
	return TopicMessages + ":" + listingID
}

// Event is one change notification.
type Event struct {
	Topic   string         `json:"topic"`
	Message *model.Message `json:"message"`
}

// Publisher is the write side, used by the messaging service after a
// successful insert.
type Publisher interface {
	Publish(ctx context.Context, topic string, message *model.Message) error
}

// Notifier is the full subscribe/publish surface exposed to the transport
// layer.
type Notifier interface {
	Publisher
	Subscribe(topic string, fn func(Event)) *Subscription
}
