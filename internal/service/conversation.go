package service

import (
	"sort"

	"github.com/badgerspace/backend/internal/model"
)

type conversationKey struct {
	listingID   string
	otherUserID string
}

// AggregateConversations is a pure projection of a user's message history:
// one conversation per (listing, counterparty) pair, carrying the most
// recent message and the viewer's unread count for that pair.
//
// messages must be sorted ascending by (created_at, id), which is how the
// repositories return them; the last message seen for a pair wins ties.
// Output is ordered by last activity, newest first, with equal timestamps
// broken by listing id then counterparty id so the order is deterministic.
func AggregateConversations(selfID string, messages []*model.Message) []*model.Conversation {
	byPair := make(map[conversationKey]*model.Conversation)
	for _, m := range messages {
		other := m.SenderID
		if other == selfID {
			other = m.ReceiverID
		}
		key := conversationKey{listingID: m.ListingID, otherUserID: other}

		conv := byPair[key]
		if conv == nil {
			conv = &model.Conversation{ListingID: m.ListingID, OtherUserID: other}
			byPair[key] = conv
		}
		conv.LastMessage = m.Content
		conv.LastMessageAt = m.CreatedAt
		if m.ReceiverID == selfID && !m.Read {
			conv.UnreadCount++
		}
	}

	conversations := make([]*model.Conversation, 0, len(byPair))
	for _, conv := range byPair {
		conversations = append(conversations, conv)
	}
	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i], conversations[j]
		if !a.LastMessageAt.Equal(b.LastMessageAt) {
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		if a.ListingID != b.ListingID {
			return a.ListingID < b.ListingID
		}
		return a.OtherUserID < b.OtherUserID
	})
	return conversations
}
