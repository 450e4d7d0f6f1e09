package repository

import (
	"context"

	"github.com/badgerspace/backend/internal/model"
)

// ListingRepository is the persistence interface for listings.
type ListingRepository interface {
	// ListActive returns active listings matching the filter, excluding
	// those owned by excludeOwnerID when it is non-empty.
	ListActive(ctx context.Context, excludeOwnerID string, filter *model.ListingFilter) ([]*model.Listing, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Listing, error)
	// GetByID returns ErrNotFound on a miss.
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Create(ctx context.Context, listing *model.Listing) error
	// Update overwrites all mutable fields and bumps updated_at.
	// Returns ErrNotFound if the listing does not exist.
	Update(ctx context.Context, listing *model.Listing) error
	// Delete removes the listing. Returns ErrNotFound on a miss.
	Delete(ctx context.Context, id string) error
	// IncrementViewCount adds one view. A missing id is a no-op, not an error.
	IncrementViewCount(ctx context.Context, id string) error
}
