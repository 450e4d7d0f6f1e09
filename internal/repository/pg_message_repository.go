package repository

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

const messageSelectCols = `id, listing_id, sender_id, receiver_id, content, read, created_at, updated_at`

func collectMessages(rows pgx.Rows) ([]*model.Message, error) {
	defer rows.Close()
	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ListingID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// Create inserts a message. The caller provides the id; the database stamps
// created_at / updated_at.
func (r *PgMessageRepository) Create(ctx context.Context, m *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages (id, listing_id, sender_id, receiver_id, content, read)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		m.ID, m.ListingID, m.SenderID, m.ReceiverID, m.Content, m.Read,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// ListThread returns the two-party message history on a listing, oldest first.
func (r *PgMessageRepository) ListThread(ctx context.Context, listingID, userA, userB string) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageSelectCols+` FROM messages
		 WHERE listing_id = $1
		   AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		 ORDER BY created_at ASC, id ASC`,
		listingID, userA, userB,
	)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

// ListByParticipant returns every message sent or received by userID.
func (r *PgMessageRepository) ListByParticipant(ctx context.Context, userID string) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageSelectCols+` FROM messages
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

// MarkRead is a conditional bulk update: only rows still unread are touched,
// so repeated calls are no-ops. Messages inserted after the statement's
// snapshot are picked up by the next call.
func (r *PgMessageRepository) MarkRead(ctx context.Context, listingID, senderID, receiverID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET read = TRUE, updated_at = NOW()
		 WHERE listing_id = $1 AND sender_id = $2 AND receiver_id = $3 AND read = FALSE`,
		listingID, senderID, receiverID,
	)
	return err
}

// CountUnread returns the receiver's unread total across all threads.
func (r *PgMessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE`,
		receiverID,
	).Scan(&count)
	return count, err
}
