package model

import (
	"strings"
	"time"
)

// Space types a listing can offer.
const (
	SpaceTypeFullSpace = "full_space"
	SpaceTypeStorage   = "storage"
	SpaceTypeShortTerm = "short_term"
)

// Contact methods. ContactInfo is required unless the method is in_app.
const (
	ContactMethodInApp = "in_app"
	ContactMethodEmail = "email"
	ContactMethodPhone = "phone"
)

// Listing statuses.
const (
	ListingStatusActive   = "active"
	ListingStatusInactive = "inactive"
)

// Host is the display snapshot of the listing owner, captured at creation
// time. Later profile changes do not update past listings.
type Host struct {
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Verified    bool      `json:"verified"`
	MemberSince time.Time `json:"member_since"`
}

type Listing struct {
	ID            string    `json:"id"`
	OwnerUserID   string    `json:"owner_user_id"`
	Title         string    `json:"title"`
	SpaceType     string    `json:"space_type"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Price         int       `json:"price"` // monthly, whole dollars
	Location      string    `json:"location"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"` // ordered, max 5
	Host          Host      `json:"host"`
	ContactMethod string    `json:"contact_method"`
	ContactInfo   string    `json:"contact_info,omitempty"`
	Status        string    `json:"status"`
	ViewCount     int       `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MaxListingImages caps the images slice on a listing.
const MaxListingImages = 5

// ListingFilter narrows a browse query. Zero values mean "no constraint".
type ListingFilter struct {
	Query     string
	SpaceType string
	MinPrice  *int
	MaxPrice  *int
	StartDate *time.Time
	EndDate   *time.Time
}

// Matches reports whether l passes the filter. The Postgres repository
// applies the same predicates in SQL; this is the shared reference used by
// in-memory stores and tests.
func (f *ListingFilter) Matches(l *Listing) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Location), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			return false
		}
	}
	if f.SpaceType != "" && l.SpaceType != f.SpaceType {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	// Availability window must overlap the requested window.
	if f.StartDate != nil && l.EndDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && l.StartDate.After(*f.EndDate) {
		return false
	}
	return true
}
