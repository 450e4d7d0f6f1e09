package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/badgerspace/backend/internal/model"
	"github.com/badgerspace/backend/internal/service"
	"github.com/badgerspace/backend/pkg/auth"
)

// ---------------------------------------------------------------------------
// mockMessageService — func-field mock for MessageService
// ---------------------------------------------------------------------------

type mockMessageService struct {
	sendFunc              func(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error)
	fetchThreadFunc       func(ctx context.Context, listingID, selfID, counterpartyID string) ([]*model.Message, error)
	markReadFunc          func(ctx context.Context, listingID, senderID, selfID string) error
	unreadCountFunc       func(ctx context.Context, selfID string) (int, error)
	listConversationsFunc func(ctx context.Context, selfID string) ([]*model.Conversation, error)
}

func (m *mockMessageService) Send(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, listingID, receiverID, content, senderID)
	}
	return &model.Message{ID: "msg-1"}, nil
}

func (m *mockMessageService) FetchThread(ctx context.Context, listingID, selfID, counterpartyID string) ([]*model.Message, error) {
	if m.fetchThreadFunc != nil {
		return m.fetchThreadFunc(ctx, listingID, selfID, counterpartyID)
	}
	return nil, nil
}

func (m *mockMessageService) MarkRead(ctx context.Context, listingID, senderID, selfID string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, listingID, senderID, selfID)
	}
	return nil
}

func (m *mockMessageService) UnreadCount(ctx context.Context, selfID string) (int, error) {
	if m.unreadCountFunc != nil {
		return m.unreadCountFunc(ctx, selfID)
	}
	return 0, nil
}

func (m *mockMessageService) ListConversations(ctx context.Context, selfID string) ([]*model.Conversation, error) {
	if m.listConversationsFunc != nil {
		return m.listConversationsFunc(ctx, selfID)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// POST /api/messages
// ---------------------------------------------------------------------------

func TestMessageHandler_Send_Success(t *testing.T) {
	var capturedListing, capturedReceiver, capturedContent, capturedSender string
	mock := &mockMessageService{
		sendFunc: func(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error) {
			capturedListing, capturedReceiver, capturedContent, capturedSender = listingID, receiverID, content, senderID
			return &model.Message{ID: "msg-1", ListingID: listingID, Content: content}, nil
		},
	}
	h := NewMessageHandler(mock)

	body := `{"listing_id": "listing-1", "receiver_id": "user-bob", "content": "still available?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if capturedListing != "listing-1" || capturedReceiver != "user-bob" || capturedContent != "still available?" {
		t.Errorf("unexpected send args: %q %q %q", capturedListing, capturedReceiver, capturedContent)
	}
	// Sender comes from the session, never from the body.
	if capturedSender != "user-alice" {
		t.Errorf("expected sender from context, got %q", capturedSender)
	}
}

func TestMessageHandler_Send_Unauthorized(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{}`))
	// No auth in context
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMessageHandler_Send_InvalidJSON_Returns400(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(`{broken`))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestMessageHandler_Send_SelfMessage_Returns400(t *testing.T) {
	mock := &mockMessageService{
		sendFunc: func(ctx context.Context, listingID, receiverID, content, senderID string) (*model.Message, error) {
			return nil, &service.ValidationError{Field: "receiver_id", Reason: "cannot message yourself"}
		},
	}
	h := NewMessageHandler(mock)

	body := `{"listing_id": "listing-1", "receiver_id": "user-alice", "content": "hi me"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Field string `json:"field"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Field != "receiver_id" {
		t.Errorf("expected field=receiver_id, got %q", resp.Field)
	}
}

// ---------------------------------------------------------------------------
// GET /api/messages/thread
// ---------------------------------------------------------------------------

func TestMessageHandler_Thread_Success(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	mock := &mockMessageService{
		fetchThreadFunc: func(ctx context.Context, listingID, selfID, counterpartyID string) ([]*model.Message, error) {
			if listingID != "listing-1" || selfID != "user-alice" || counterpartyID != "user-bob" {
				t.Errorf("unexpected args: %q %q %q", listingID, selfID, counterpartyID)
			}
			return []*model.Message{
				{ID: "m1", Content: "hi", CreatedAt: now},
				{ID: "m2", Content: "hello", CreatedAt: now.Add(time.Minute)},
			}, nil
		},
	}
	h := NewMessageHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/thread?listing_id=listing-1&user_id=user-bob", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Thread(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var got []*model.Message
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m1" {
		t.Errorf("unexpected thread: %+v", got)
	}
}

func TestMessageHandler_Thread_MissingParams_Returns400(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	for _, target := range []string{
		"/api/messages/thread",
		"/api/messages/thread?listing_id=listing-1",
		"/api/messages/thread?user_id=user-bob",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
		rec := httptest.NewRecorder()
		h.Thread(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestMessageHandler_Thread_EmptyThread_ReturnsEmptyArray(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodGet, "/api/messages/thread?listing_id=listing-1&user_id=user-bob", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Thread(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %q", body)
	}
}

// ---------------------------------------------------------------------------
// POST /api/messages/read, GET /api/messages/unread-count
// ---------------------------------------------------------------------------

func TestMessageHandler_MarkRead_Returns204(t *testing.T) {
	var capturedListing, capturedSender, capturedSelf string
	mock := &mockMessageService{
		markReadFunc: func(ctx context.Context, listingID, senderID, selfID string) error {
			capturedListing, capturedSender, capturedSelf = listingID, senderID, selfID
			return nil
		},
	}
	h := NewMessageHandler(mock)

	body := `{"listing_id": "listing-1", "sender_id": "user-bob"}`
	req := httptest.NewRequest(http.MethodPost, "/api/messages/read", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if capturedListing != "listing-1" || capturedSender != "user-bob" || capturedSelf != "user-alice" {
		t.Errorf("unexpected args: %q %q %q", capturedListing, capturedSender, capturedSelf)
	}
}

func TestMessageHandler_MarkRead_Unauthorized(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodPost, "/api/messages/read", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMessageHandler_UnreadCount_Success(t *testing.T) {
	mock := &mockMessageService{
		unreadCountFunc: func(ctx context.Context, selfID string) (int, error) {
			return 3, nil
		},
	}
	h := NewMessageHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/unread-count", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.UnreadCount(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("expected count=3, got %d", resp.Count)
	}
}

// ---------------------------------------------------------------------------
// GET /api/conversations
// ---------------------------------------------------------------------------

func TestMessageHandler_Conversations_Success(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	mock := &mockMessageService{
		listConversationsFunc: func(ctx context.Context, selfID string) ([]*model.Conversation, error) {
			return []*model.Conversation{
				{ListingID: "listing-2", OtherUserID: "user-carol", LastMessage: "newest", LastMessageAt: now.Add(time.Hour), UnreadCount: 1},
				{ListingID: "listing-1", OtherUserID: "user-bob", LastMessage: "older", LastMessageAt: now},
			}, nil
		},
	}
	h := NewMessageHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Conversations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []*model.Conversation
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(got))
	}
	if got[0].ListingID != "listing-2" || got[0].UnreadCount != 1 {
		t.Errorf("unexpected first conversation: %+v", got[0])
	}
}

func TestMessageHandler_Conversations_Empty_ReturnsEmptyArray(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-alice"))
	rec := httptest.NewRecorder()
	h.Conversations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected [], got %q", body)
	}
}

func TestMessageHandler_Conversations_Unauthorized(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	rec := httptest.NewRecorder()
	h.Conversations(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
