package model

import "time"

// Conversation is a derived summary of one (listing, counterparty) message
// thread from a particular viewer's perspective. It is never stored;
// service.AggregateConversations computes it from the message log.
type Conversation struct {
	ListingID     string    `json:"listing_id"`
	OtherUserID   string    `json:"other_user_id"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
