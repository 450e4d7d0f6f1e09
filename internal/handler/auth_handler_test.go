package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

var testSecret = []byte("test-session-secret-test-session")

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	identity := &mockIdentityService{
		resolveByEmailFunc: func(ctx context.Context, email, name string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Name: name}, nil
		},
	}
	h := NewAuthHandler(identity, testSecret, false)

	body := `{"email": "bucky@wisc.edu", "name": "Bucky"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if cookie.MaxAge <= 0 {
		t.Errorf("expected a positive MaxAge, got %d", cookie.MaxAge)
	}

	userID, err := auth.VerifySessionToken(cookie.Value, testSecret)
	if err != nil {
		t.Fatalf("cookie does not verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user-1 in the token, got %q", userID)
	}

	var user model.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.Email != "bucky@wisc.edu" {
		t.Errorf("unexpected user in response: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidEmail_Returns400(t *testing.T) {
	identity := &mockIdentityService{
		resolveByEmailFunc: func(ctx context.Context, email, name string) (*model.User, error) {
			return nil, &service.ValidationError{Field: "email", Reason: "must be a valid address"}
		},
	}
	h := NewAuthHandler(identity, testSecret, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email": "not-an-email"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidJSON_Returns400(t *testing.T) {
	h := NewAuthHandler(&mockIdentityService{}, testSecret, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	h := NewAuthHandler(&mockIdentityService{}, testSecret, false)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("logout must rewrite the session cookie")
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("expected a negative MaxAge to expire the cookie, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("expected an empty cookie value, got %q", cookie.Value)
	}
}
