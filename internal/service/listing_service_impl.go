package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator builds the shared validator, reporting fields under their
// json names so validation errors match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ListingServiceImpl is the implementation of ListingService.
type ListingServiceImpl struct {
	listingRepo repository.ListingRepository
}

// NewListingService creates a ListingServiceImpl (DI: ListingRepository).
func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &ListingServiceImpl{listingRepo: listingRepo}
}

// validateInput runs the struct tags plus the cross-field rules the tags
// cannot express. When the contact method is in_app the contact info is
// cleared rather than rejected.
func validateInput(input *ListingInput) error {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			// Field() is the json name via the registered tag-name func.
			return &ValidationError{Field: verrs[0].Field(), Reason: verrs[0].Tag()}
		}
		return err
	}
	if input.EndDate.Before(input.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	if input.ContactMethod == model.ContactMethodInApp {
		input.ContactInfo = ""
	} else if strings.TrimSpace(input.ContactInfo) == "" {
		return &ValidationError{Field: "contact_info", Reason: "required for email or phone contact"}
	}
	return nil
}

// ListActive returns browsable listings, optionally excluding the viewer's own.
func (s *ListingServiceImpl) ListActive(ctx context.Context, viewerID string, excludeOwn bool, filter *model.ListingFilter) ([]*model.Listing, error) {
	excludeOwnerID := ""
	if excludeOwn && viewerID != "" {
		excludeOwnerID = viewerID
	}
	listings, err := s.listingRepo.ListActive(ctx, excludeOwnerID, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	return listings, nil
}

// ListByOwnerID returns all of ownerID's listings regardless of status.
func (s *ListingServiceImpl) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Listing, error) {
	listings, err := s.listingRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return listings, nil
}

// GetByID fetches one listing; a miss surfaces as repository.ErrNotFound.
func (s *ListingServiceImpl) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return listing, nil
}

// hostSnapshot builds the display snapshot of the owner at creation time,
// mirroring what the signup flow shows: display name falls back to the email
// local part, the avatar to a deterministic placeholder.
func hostSnapshot(owner *model.User) model.Host {
	name := owner.Name
	if name == "" {
		if at := strings.IndexByte(owner.Email, '@'); at > 0 {
			name = owner.Email[:at]
		} else {
			name = "UW Student"
		}
	}
	avatar := owner.AvatarURL
	if avatar == "" {
		avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", owner.ID)
	}
	return model.Host{
		Name:        name,
		AvatarURL:   avatar,
		Verified:    true, // every authenticated student is verified
		MemberSince: owner.CreatedAt,
	}
}

// Create validates the input and persists a new listing owned by owner.
func (s *ListingServiceImpl) Create(ctx context.Context, input *ListingInput, owner *model.User) (*model.Listing, error) {
	if owner == nil || owner.ID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	listing := &model.Listing{
		ID:            uuid.NewString(),
		OwnerUserID:   owner.ID,
		Title:         input.Title,
		SpaceType:     input.SpaceType,
		Description:   input.Description,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Price:         input.Price,
		Location:      input.Location,
		Amenities:     input.Amenities,
		Images:        input.Images,
		Host:          hostSnapshot(owner),
		ContactMethod: input.ContactMethod,
		ContactInfo:   input.ContactInfo,
		Status:        model.ListingStatusActive,
		ViewCount:     0,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, storeErr(err)
	}
	return listing, nil
}

// loadOwned fetches a listing and enforces the ownership rule shared by
// every mutating operation: no identity is Unauthenticated, a foreign
// identity is Forbidden.
func (s *ListingServiceImpl) loadOwned(ctx context.Context, id, callerID string) (*model.Listing, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	if listing.OwnerUserID != callerID {
		return nil, ErrForbidden
	}
	return listing, nil
}

// Update merges the patch into the caller's listing and re-validates the
// result. Concurrent updates to the same listing are last-writer-wins.
func (s *ListingServiceImpl) Update(ctx context.Context, id string, patch *ListingPatch, callerID string) (*model.Listing, error) {
	listing, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		listing.Title = *patch.Title
	}
	if patch.SpaceType != nil {
		listing.SpaceType = *patch.SpaceType
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.StartDate != nil {
		listing.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		listing.EndDate = *patch.EndDate
	}
	if patch.Price != nil {
		listing.Price = *patch.Price
	}
	if patch.Location != nil {
		listing.Location = *patch.Location
	}
	if patch.Amenities != nil {
		listing.Amenities = *patch.Amenities
	}
	if patch.Images != nil {
		listing.Images = *patch.Images
	}
	if patch.ContactMethod != nil {
		listing.ContactMethod = *patch.ContactMethod
	}
	if patch.ContactInfo != nil {
		listing.ContactInfo = *patch.ContactInfo
	}
	if patch.Status != nil {
		if *patch.Status != model.ListingStatusActive && *patch.Status != model.ListingStatusInactive {
			return nil, &ValidationError{Field: "status", Reason: "must be active or inactive"}
		}
		listing.Status = *patch.Status
	}

	merged := &ListingInput{
		Title:         listing.Title,
		SpaceType:     listing.SpaceType,
		Description:   listing.Description,
		StartDate:     listing.StartDate,
		EndDate:       listing.EndDate,
		Price:         listing.Price,
		Location:      listing.Location,
		Amenities:     listing.Amenities,
		Images:        listing.Images,
		ContactMethod: listing.ContactMethod,
		ContactInfo:   listing.ContactInfo,
	}
	if err := validateInput(merged); err != nil {
		return nil, err
	}
	listing.ContactInfo = merged.ContactInfo // cleared when method is in_app

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}
	return listing, nil
}

// Delete removes the caller's listing. A missing id yields (false, nil).
func (s *ListingServiceImpl) Delete(ctx context.Context, id, callerID string) (bool, error) {
	_, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := s.listingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, storeErr(err)
	}
	return true, nil
}

// ToggleStatus flips the listing between active and inactive.
func (s *ListingServiceImpl) ToggleStatus(ctx context.Context, id, callerID string) (*model.Listing, error) {
	listing, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	next := model.ListingStatusInactive
	if listing.Status == model.ListingStatusInactive {
		next = model.ListingStatusActive
	}
	return s.Update(ctx, id, &ListingPatch{Status: &next}, callerID)
}

// AddImage appends an uploaded image URL, enforcing the five-image cap.
func (s *ListingServiceImpl) AddImage(ctx context.Context, id, callerID, imageURL string) (*model.Listing, error) {
	listing, err := s.loadOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if len(listing.Images) >= model.MaxListingImages {
		return nil, &ValidationError{Field: "images", Reason: "max"}
	}
	images := append(append([]string{}, listing.Images...), imageURL)
	return s.Update(ctx, id, &ListingPatch{Images: &images}, callerID)
}

// IncrementViewCount records a page view. Best-effort: repeated views by the
// same visitor all count, misses and store errors are swallowed.
func (s *ListingServiceImpl) IncrementViewCount(ctx context.Context, id string) {
	if err := s.listingRepo.IncrementViewCount(ctx, id); err != nil {
		slog.Warn("view count increment failed", "listing_id", id, "error", err)
	}
}
