package repository

import (
	"context"
	"errors"

	"github.com/badgerspace/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a PgUserRepository.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userSelectCols = `id, email, name, avatar_url, created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	var avatar *string
	if err := scan(&u.ID, &u.Email, &u.Name, &avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if avatar != nil {
		u.AvatarURL = *avatar
	}
	return &u, nil
}

// FindByID fetches a user by id, or ErrNotFound.
func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// FindByEmail fetches a user by email, or ErrNotFound.
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// Create inserts a user. The caller provides the id.
func (r *PgUserRepository) Create(ctx context.Context, u *model.User) error {
	var avatar *string
	if u.AvatarURL != "" {
		avatar = &u.AvatarURL
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.Name, avatar,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}
