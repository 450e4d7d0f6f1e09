package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/badgerspace/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgListingRepository is the PostgreSQL implementation of ListingRepository.
type PgListingRepository struct {
	pool *pgxpool.Pool
}

// NewPgListingRepository creates a PgListingRepository.
func NewPgListingRepository(pool *pgxpool.Pool) *PgListingRepository {
	return &PgListingRepository{pool: pool}
}

// Ping verifies the database connection (DB interface).
func (r *PgListingRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const listingSelectCols = `id, owner_user_id, title, space_type, description,
	start_date, end_date, price, location, amenities, images,
	host_name, host_avatar, host_verified, host_member_since,
	contact_method, contact_info, status, view_count, created_at, updated_at`

func scanListing(scan func(...any) error) (*model.Listing, error) {
	var l model.Listing
	if err := scan(
		&l.ID, &l.OwnerUserID, &l.Title, &l.SpaceType, &l.Description,
		&l.StartDate, &l.EndDate, &l.Price, &l.Location, &l.Amenities, &l.Images,
		&l.Host.Name, &l.Host.AvatarURL, &l.Host.Verified, &l.Host.MemberSince,
		&l.ContactMethod, &l.ContactInfo, &l.Status, &l.ViewCount, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func collectListings(rows pgx.Rows) ([]*model.Listing, error) {
	defer rows.Close()
	var listings []*model.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// ListActive returns active listings, newest first, matching the filter.
func (r *PgListingRepository) ListActive(ctx context.Context, excludeOwnerID string, filter *model.ListingFilter) ([]*model.Listing, error) {
	query := `SELECT ` + listingSelectCols + ` FROM listings WHERE status = 'active'`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if excludeOwnerID != "" {
		query += ` AND owner_user_id != ` + arg(excludeOwnerID)
	}
	if filter != nil {
		if filter.Query != "" {
			p := arg("%" + filter.Query + "%")
			query += ` AND (title ILIKE ` + p + ` OR location ILIKE ` + p + ` OR description ILIKE ` + p + `)`
		}
		if filter.SpaceType != "" {
			query += ` AND space_type = ` + arg(filter.SpaceType)
		}
		if filter.MinPrice != nil {
			query += ` AND price >= ` + arg(*filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query += ` AND price <= ` + arg(*filter.MaxPrice)
		}
		if filter.StartDate != nil {
			query += ` AND end_date >= ` + arg(*filter.StartDate)
		}
		if filter.EndDate != nil {
			query += ` AND start_date <= ` + arg(*filter.EndDate)
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

// ListByOwnerID returns all listings (any status) owned by ownerID.
func (r *PgListingRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Listing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listingSelectCols+` FROM listings WHERE owner_user_id = $1 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	return collectListings(rows)
}

// GetByID fetches one listing, or ErrNotFound.
func (r *PgListingRepository) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+listingSelectCols+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

// Create inserts a listing. The caller provides the id; the database stamps
// created_at / updated_at.
func (r *PgListingRepository) Create(ctx context.Context, l *model.Listing) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO listings (id, owner_user_id, title, space_type, description,
		   start_date, end_date, price, location, amenities, images,
		   host_name, host_avatar, host_verified, host_member_since,
		   contact_method, contact_info, status, view_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING created_at, updated_at`,
		l.ID, l.OwnerUserID, l.Title, l.SpaceType, l.Description,
		l.StartDate, l.EndDate, l.Price, l.Location, l.Amenities, l.Images,
		l.Host.Name, l.Host.AvatarURL, l.Host.Verified, l.Host.MemberSince,
		l.ContactMethod, l.ContactInfo, l.Status, l.ViewCount,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

// Update overwrites the mutable columns. Last writer wins on concurrent
// updates to the same row.
func (r *PgListingRepository) Update(ctx context.Context, l *model.Listing) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE listings SET title = $1, space_type = $2, description = $3,
		   start_date = $4, end_date = $5, price = $6, location = $7,
		   amenities = $8, images = $9, contact_method = $10, contact_info = $11,
		   status = $12, updated_at = NOW()
		 WHERE id = $13
		 RETURNING updated_at`,
		l.Title, l.SpaceType, l.Description,
		l.StartDate, l.EndDate, l.Price, l.Location,
		l.Amenities, l.Images, l.ContactMethod, l.ContactInfo,
		l.Status, l.ID,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes the listing row. Returns ErrNotFound if nothing was deleted.
func (r *PgListingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps view_count by one. Missing ids are ignored so the
// viewer path never fails on a stale link.
func (r *PgListingRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE listings SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}
