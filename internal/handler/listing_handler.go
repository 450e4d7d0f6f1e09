package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

// parseDate accepts "YYYY-MM-DD" or RFC3339. Empty input returns nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// ListingHandler serves the listing CRUD endpoints.
type ListingHandler struct {
	listingService  service.ListingService
	identityService service.IdentityService
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(listingService service.ListingService, identityService service.IdentityService) *ListingHandler {
	return &ListingHandler{listingService: listingService, identityService: identityService}
}

// List handles GET /api/listings (browse; works logged out).
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := &model.ListingFilter{
		Query:     q.Get("q"),
		SpaceType: q.Get("space_type"),
		StartDate: parseDate(q.Get("start_date")),
		EndDate:   parseDate(q.Get("end_date")),
	}
	if v := q.Get("min_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.MinPrice = &n
		}
	}
	if v := q.Get("max_price"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.MaxPrice = &n
		}
	}

	viewerID, _ := auth.UserIDFromContext(r.Context())
	excludeOwn := q.Get("exclude_own") == "true"

	listings, err := h.listingService.ListActive(r.Context(), viewerID, excludeOwn, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if listings == nil {
		listings = []*model.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

// Get handles GET /api/listings/{id}. Every successful view bumps the view
// counter off the request path; a failed bump never fails the view.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	listing, err := h.listingService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	go h.listingService.IncrementViewCount(context.WithoutCancel(r.Context()), id)

	writeJSON(w, http.StatusOK, listing)
}

// MyListings handles GET /api/me/listings (any status, auth required).
func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listings, err := h.listingService.ListByOwnerID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if listings == nil {
		listings = []*model.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

type listingRequest struct {
	Title         string   `json:"title"`
	SpaceType     string   `json:"space_type"`
	Description   string   `json:"description"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Price         int      `json:"price"`
	Location      string   `json:"location"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	ContactMethod string   `json:"contact_method"`
	ContactInfo   string   `json:"contact_info"`
}

// Create handles POST /api/listings (auth required).
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	input := &service.ListingInput{
		Title:         req.Title,
		SpaceType:     req.SpaceType,
		Description:   req.Description,
		Price:         req.Price,
		Location:      req.Location,
		Amenities:     req.Amenities,
		Images:        req.Images,
		ContactMethod: req.ContactMethod,
		ContactInfo:   req.ContactInfo,
	}
	if t := parseDate(req.StartDate); t != nil {
		input.StartDate = *t
	}
	if t := parseDate(req.EndDate); t != nil {
		input.EndDate = *t
	}

	owner, err := h.identityService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	listing, err := h.listingService.Create(r.Context(), input, owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

type listingPatchRequest struct {
	Title         *string   `json:"title"`
	SpaceType     *string   `json:"space_type"`
	Description   *string   `json:"description"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	Price         *int      `json:"price"`
	Location      *string   `json:"location"`
	Amenities     *[]string `json:"amenities"`
	Images        *[]string `json:"images"`
	ContactMethod *string   `json:"contact_method"`
	ContactInfo   *string   `json:"contact_info"`
	Status        *string   `json:"status"`
}

// Update handles PUT /api/listings/{id} (owner only).
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	var req listingPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	patch := &service.ListingPatch{
		Title:         req.Title,
		SpaceType:     req.SpaceType,
		Description:   req.Description,
		Price:         req.Price,
		Location:      req.Location,
		Amenities:     req.Amenities,
		Images:        req.Images,
		ContactMethod: req.ContactMethod,
		ContactInfo:   req.ContactInfo,
		Status:        req.Status,
	}
	if req.StartDate != nil {
		t := parseDate(*req.StartDate)
		if t == nil {
			writeServiceError(w, &service.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD or RFC 3339"})
			return
		}
		patch.StartDate = t
	}
	if req.EndDate != nil {
		t := parseDate(*req.EndDate)
		if t == nil {
			writeServiceError(w, &service.ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD or RFC 3339"})
			return
		}
		patch.EndDate = t
	}

	listing, err := h.listingService.Update(r.Context(), id, patch, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Delete handles DELETE /api/listings/{id} (owner only). A miss reports
// deleted=false rather than an error.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")

	deleted, err := h.listingService.Delete(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// PatchStatus handles PATCH /api/listings/{id}/status (owner only): flips
// the listing between active and inactive.
func (h *ListingHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := r.PathValue("id")

	listing, err := h.listingService.ToggleStatus(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
