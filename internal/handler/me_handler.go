package handler

import (
	"net/http"

	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

// MeHandler returns the current user's identity record.
type MeHandler struct {
	identityService service.IdentityService
}

// NewMeHandler creates a MeHandler.
func NewMeHandler(identityService service.IdentityService) *MeHandler {
	return &MeHandler{identityService: identityService}
}

// Me handles GET /api/me (auth required).
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.identityService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
