package handler

import (
	"fmt"
	"net/http"

	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/internal/storage"
	"github.com/badgerspace/backend/pkg/auth"
	"github.com/google/uuid"
)

const maxImageSize = 2 << 20 // 2 MB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageHandler accepts listing photo uploads. Storage is a stub behind the
// Storage interface; the listing only ever sees the returned URL.
type ImageHandler struct {
	storage        storage.Storage
	listingService service.ListingService
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(store storage.Storage, listingService service.ListingService) *ImageHandler {
	return &ImageHandler{storage: store, listingService: listingService}
}

// Upload handles POST /api/listings/{id}/images (owner only, max 5 photos).
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listingID := r.PathValue("id")
	if listingID == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "file_too_large")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_required")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		writeError(w, http.StatusBadRequest, "file_too_large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported_image_type")
		return
	}

	key := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.NewString(), ext)
	url, err := h.storage.Save(r.Context(), key, file, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload_failed")
		return
	}

	listing, err := h.listingService.AddImage(r.Context(), listingID, userID, url)
	if err != nil {
		// The file is orphaned on failure; the ownership check already
		// happened inside AddImage so only races and validation land here.
		_ = h.storage.Delete(r.Context(), key)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
