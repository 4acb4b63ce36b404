package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blgs-backend/internal/catalog"
	"blgs-backend/internal/models"
	"blgs-backend/internal/services"
)

// countingProvider records every outbound model call.
type countingProvider struct {
	calls   atomic.Int32
	reply   string
	err     error
	history []models.ChatTurn
	message string
}

func (p *countingProvider) Generate(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	p.calls.Add(1)
	p.history = history
	p.message = message
	return p.reply, p.err
}

func newTestChatHandler(t *testing.T, provider services.Provider, apiKey string) *ChatHandler {
	t.Helper()
	facts, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}
	return NewChatHandler(services.NewChatService(provider, apiKey, facts, 2, nil))
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Send(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestChatHandler_Send_PlanBPricing(t *testing.T) {
	provider := &countingProvider{reply: "Plan B (Intent-Based) is $600/mo."}
	h := newTestChatHandler(t, provider, "test-key")

	rr := postChat(t, h, `{"message":"What is Plan B pricing?","history":[]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	body := decodeBody(t, rr)
	text, ok := body["text"].(string)
	if !ok || text == "" {
		t.Fatalf("expected non-empty text field, got %v", body)
	}
	if _, hasErr := body["error"]; hasErr {
		t.Fatalf("unexpected error field on success")
	}
}

func TestChatHandler_Send_MissingCredential(t *testing.T) {
	provider := &countingProvider{reply: "unused"}
	h := newTestChatHandler(t, provider, "")

	rr := postChat(t, h, `{"message":"anything","history":[]}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	body := decodeBody(t, rr)
	if msg, _ := body["error"].(string); msg == "" {
		t.Fatalf("expected error field, got %v", body)
	}
	if body["code"] != "CONFIG_ERROR" {
		t.Fatalf("expected CONFIG_ERROR, got %v", body["code"])
	}
	if n := provider.calls.Load(); n != 0 {
		t.Fatalf("expected no outbound call, got %d", n)
	}
}

func TestChatHandler_Send_UpstreamFailureDoesNotLeak(t *testing.T) {
	secret := "rpc error: code = Unavailable desc = upstream connect error at /internal/gemini.go:88"
	provider := &countingProvider{err: errors.New(secret)}
	h := newTestChatHandler(t, provider, "test-key")

	rr := postChat(t, h, `{"message":"hi","history":[]}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	raw := rr.Body.String()
	for _, fragment := range []string{"rpc error", "Unavailable", "gemini.go", "upstream connect"} {
		if strings.Contains(raw, fragment) {
			t.Fatalf("response leaks upstream detail %q: %s", fragment, raw)
		}
	}

	var body map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "Failed to process request" {
		t.Fatalf("expected generic error, got %v", body["error"])
	}
}

func TestChatHandler_Send_HistoryOrderReachesUpstream(t *testing.T) {
	provider := &countingProvider{reply: "ok"}
	h := newTestChatHandler(t, provider, "test-key")

	payload := `{"message":"C","history":[
		{"role":"user","parts":[{"text":"A"}]},
		{"role":"model","parts":[{"text":"B"}]}
	]}`
	rr := postChat(t, h, payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got []string
	for _, turn := range provider.history {
		got = append(got, turn.Text)
	}
	got = append(got, provider.message)
	if strings.Join(got, "") != "ABC" {
		t.Fatalf("expected A,B,C upstream, got %v", got)
	}
}

func TestChatHandler_Send_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"message":`},
		{"blank message", `{"message":"   ","history":[]}`},
		{"unknown role", `{"message":"hi","history":[{"role":"system","text":"x"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &countingProvider{reply: "ok"}
			h := newTestChatHandler(t, provider, "test-key")

			rr := postChat(t, h, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			body := decodeBody(t, rr)
			if body["code"] != "VALIDATION_ERROR" {
				t.Fatalf("expected VALIDATION_ERROR, got %v", body["code"])
			}
			if provider.calls.Load() != 0 {
				t.Fatalf("expected no outbound call")
			}
		})
	}
}

func TestChatHandler_Send_BodyTooLarge(t *testing.T) {
	provider := &countingProvider{reply: "ok"}
	h := newTestChatHandler(t, provider, "test-key")

	big := `{"message":"` + strings.Repeat("x", maxChatBodyBytes+10) + `"}`
	rr := postChat(t, h, big)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestChatHandler_Clear(t *testing.T) {
	h := newTestChatHandler(t, &countingProvider{}, "test-key")

	id := uuid.NewString()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)

	req := httptest.NewRequest(http.MethodDelete, "/api/chat/"+id, nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()
	h.Clear(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	rctx = chi.NewRouteContext()
	rctx.URLParams.Add("id", "bogus")
	req = httptest.NewRequest(http.MethodDelete, "/api/chat/bogus", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr = httptest.NewRecorder()
	h.Clear(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid id, got %d", rr.Code)
	}
}

func TestHandleServiceError_UnknownError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(nil))
	rr := httptest.NewRecorder()

	handleServiceError(rr, req, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["error"] == "boom" {
		t.Fatalf("raw error leaked to client")
	}
}
