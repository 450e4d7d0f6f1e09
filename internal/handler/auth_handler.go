package handler

import (
	"encoding/json"
	"net/http"

	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

// AuthHandler issues and clears sessions for identities asserted by the
// external provider. There is no credential check here: the login endpoint
// trusts the email it is handed, which is suitable for the dev flow the
// frontend uses behind campus SSO.
type AuthHandler struct {
	identityService service.IdentityService
	sessionSecret   []byte
	secureCookies   bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(identityService service.IdentityService, sessionSecret []byte, secureCookies bool) *AuthHandler {
	return &AuthHandler{identityService: identityService, sessionSecret: sessionSecret, secureCookies: secureCookies}
}

// Login handles POST /api/auth/login: finds or creates the user for the
// asserted email and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	user, err := h.identityService.ResolveByEmail(r.Context(), req.Email, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token := auth.CreateSessionToken(user.ID, h.sessionSecret)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60,
	})
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout: expires the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}
