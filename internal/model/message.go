package model

import "time"

// Message is one direct message about a listing. Immutable after creation
// except for Read, which only ever flips false -> true.
type Message struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
