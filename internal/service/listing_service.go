package service

import (
	"context"
	"time"

	"github.com/badgerspace/backend/internal/model"
)

// ListingInput carries the caller-provided fields for creating a listing.
// The json tags double as the field names reported in validation errors.
type ListingInput struct {
	Title         string    `json:"title" validate:"required"`
	SpaceType     string    `json:"space_type" validate:"required,oneof=full_space storage short_term"`
	Description   string    `json:"description" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	Price         int       `json:"price" validate:"gte=0"`
	Location      string    `json:"location" validate:"required"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images" validate:"max=5"`
	ContactMethod string    `json:"contact_method" validate:"required,oneof=in_app email phone"`
	ContactInfo   string    `json:"contact_info"`
}

// ListingPatch is a partial update; nil fields are left unchanged.
type ListingPatch struct {
	Title         *string    `json:"title"`
	SpaceType     *string    `json:"space_type"`
	Description   *string    `json:"description"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Price         *int       `json:"price"`
	Location      *string    `json:"location"`
	Amenities     *[]string  `json:"amenities"`
	Images        *[]string  `json:"images"`
	ContactMethod *string    `json:"contact_method"`
	ContactInfo   *string    `json:"contact_info"`
	Status        *string    `json:"status"`
}

// ListingService holds the business rules for listings: ownership guards,
// input validation, host snapshots and the active/inactive lifecycle.
type ListingService interface {
	ListActive(ctx context.Context, viewerID string, excludeOwn bool, filter *model.ListingFilter) ([]*model.Listing, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Create(ctx context.Context, input *ListingInput, owner *model.User) (*model.Listing, error)
	Update(ctx context.Context, id string, patch *ListingPatch, callerID string) (*model.Listing, error)
	// Delete reports whether a listing was removed; a miss is (false, nil),
	// an ownership mismatch is ErrForbidden.
	Delete(ctx context.Context, id, callerID string) (bool, error)
	ToggleStatus(ctx context.Context, id, callerID string) (*model.Listing, error)
	AddImage(ctx context.Context, id, callerID, imageURL string) (*model.Listing, error)
	// IncrementViewCount is fire-and-forget: misses and store failures are
	// swallowed so the viewing path never breaks.
	IncrementViewCount(ctx context.Context, id string)
}
