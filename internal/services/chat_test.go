package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"blgs-backend/internal/catalog"
	"blgs-backend/internal/models"
)

type stubProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int

	gotSystem  string
	gotHistory []models.ChatTurn
	gotMessage string
}

func (s *stubProvider) Generate(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.gotSystem = system
	s.gotHistory = append([]models.ChatTurn(nil), history...)
	s.gotMessage = message
	return s.reply, s.err
}

type stubStore struct {
	turns   map[string][]models.ChatTurn
	loadErr error
	saveErr error
	deleted []string
}

func newStubStore() *stubStore {
	return &stubStore{turns: make(map[string][]models.ChatTurn)}
}

func (s *stubStore) Load(ctx context.Context, id string) ([]models.ChatTurn, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.turns[id], nil
}

func (s *stubStore) Save(ctx context.Context, id string, turns []models.ChatTurn) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.turns[id] = turns
	return nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.turns, id)
	return nil
}

func testFacts(t *testing.T) *models.Facts {
	t.Helper()
	facts, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}
	return facts
}

func TestChatService_Reply_Success(t *testing.T) {
	provider := &stubProvider{reply: "Plan B is $600/mo."}
	svc := NewChatService(provider, "key", testFacts(t), 1, nil)

	resp, err := svc.Reply(context.Background(), models.ChatRequest{Message: "What is Plan B pricing?"})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if resp.Text == "" {
		t.Fatalf("expected non-empty text")
	}
	if resp.ConversationID != "" {
		t.Fatalf("expected no conversation id without a store, got %q", resp.ConversationID)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
	if !strings.Contains(provider.gotSystem, "$600") {
		t.Fatalf("expected system prompt to carry plan prices")
	}
}

func TestChatService_Reply_PreservesHistoryOrder(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc := NewChatService(provider, "key", testFacts(t), 0, nil)

	_, err := svc.Reply(context.Background(), models.ChatRequest{
		Message: "C",
		History: []models.ChatTurn{
			{Role: "user", Text: "A"},
			{Role: "assistant", Text: "B"},
		},
	})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	got := make([]string, 0, 3)
	for _, turn := range provider.gotHistory {
		got = append(got, turn.Text)
	}
	got = append(got, provider.gotMessage)
	if strings.Join(got, ",") != "A,B,C" {
		t.Fatalf("expected upstream order A,B,C, got %v", got)
	}
	if provider.gotHistory[1].Role != models.RoleModel {
		t.Fatalf("expected assistant role normalized to model, got %q", provider.gotHistory[1].Role)
	}
}

func TestChatService_Reply_MissingCredential(t *testing.T) {
	provider := &stubProvider{reply: "should not be used"}
	svc := NewChatService(provider, "  ", testFacts(t), 1, nil)

	_, err := svc.Reply(context.Background(), models.ChatRequest{Message: "hi"})

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential in chain")
	}
	if provider.calls != 0 {
		t.Fatalf("expected no outbound call, got %d", provider.calls)
	}
}

func TestChatService_Reply_NilProvider(t *testing.T) {
	svc := NewChatService(nil, "", testFacts(t), 1, nil)

	_, err := svc.Reply(context.Background(), models.ChatRequest{Message: "hi"})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestChatService_Reply_UpstreamFailureIsGeneric(t *testing.T) {
	provider := &stubProvider{err: errors.New("googleapi: Error 503: backend overloaded at 10.0.0.4")}
	svc := NewChatService(provider, "key", testFacts(t), 1, nil)

	_, err := svc.Reply(context.Background(), models.ChatRequest{Message: "hi"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if strings.Contains(upErr.Error(), "googleapi") || strings.Contains(upErr.Error(), "10.0.0.4") {
		t.Fatalf("user message leaks provider detail: %q", upErr.Error())
	}
	if !strings.Contains(errors.Unwrap(err).Error(), "backend overloaded") {
		t.Fatalf("expected provider error preserved for logging")
	}
}

func TestChatService_Reply_EmptyReplyFallback(t *testing.T) {
	provider := &stubProvider{reply: "   "}
	svc := NewChatService(provider, "key", testFacts(t), 1, nil)

	resp, err := svc.Reply(context.Background(), models.ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if resp.Text != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", resp.Text)
	}
}

func TestChatService_Reply_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ChatRequest
	}{
		{"blank message", models.ChatRequest{Message: "  \n"}},
		{"bad role", models.ChatRequest{Message: "hi", History: []models.ChatTurn{{Role: "system", Text: "x"}}}},
		{"bad conversation id", models.ChatRequest{Message: "hi", ConversationID: "not-a-uuid"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{reply: "ok"}
			svc := NewChatService(provider, "key", testFacts(t), 1, nil)

			_, err := svc.Reply(context.Background(), tc.req)
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if provider.calls != 0 {
				t.Fatalf("expected no provider call on invalid input")
			}
		})
	}
}

func TestChatService_Reply_CanceledWhileWaitingForSlot(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	svc := NewChatService(provider, "key", testFacts(t), 1, nil)

	// Occupy the only slot
	<-svc.rateChan

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reply(ctx, models.ChatRequest{Message: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider call")
	}
}

func TestChatService_Reply_StoresTranscript(t *testing.T) {
	provider := &stubProvider{reply: "Plan C is $900/mo."}
	store := newStubStore()
	svc := NewChatService(provider, "key", testFacts(t), 1, store)

	resp, err := svc.Reply(context.Background(), models.ChatRequest{Message: "Plan C?"})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if _, err := uuid.Parse(resp.ConversationID); err != nil {
		t.Fatalf("expected issued conversation id, got %q", resp.ConversationID)
	}

	saved := store.turns[resp.ConversationID]
	if len(saved) != 2 || saved[0].Text != "Plan C?" || saved[1].Role != models.RoleModel {
		t.Fatalf("unexpected transcript: %+v", saved)
	}

	// A follow-up without history continues from the stored turns
	provider.reply = "Yes."
	resp2, err := svc.Reply(context.Background(), models.ChatRequest{Message: "Monthly?", ConversationID: resp.ConversationID})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if resp2.ConversationID != resp.ConversationID {
		t.Fatalf("expected same conversation id")
	}
	if len(provider.gotHistory) != 2 || provider.gotHistory[0].Text != "Plan C?" {
		t.Fatalf("expected stored history to be replayed, got %+v", provider.gotHistory)
	}
	if len(store.turns[resp.ConversationID]) != 4 {
		t.Fatalf("expected transcript to grow to 4 turns, got %d", len(store.turns[resp.ConversationID]))
	}
}

func TestChatService_Reply_ClientHistoryWinsOverStore(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	store := newStubStore()
	id := uuid.NewString()
	store.turns[id] = []models.ChatTurn{{Role: models.RoleUser, Text: "stale"}}
	svc := NewChatService(provider, "key", testFacts(t), 1, store)

	_, err := svc.Reply(context.Background(), models.ChatRequest{
		Message:        "now",
		ConversationID: id,
		History:        []models.ChatTurn{{Role: models.RoleUser, Text: "fresh"}},
	})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if len(provider.gotHistory) != 1 || provider.gotHistory[0].Text != "fresh" {
		t.Fatalf("expected client history to be used, got %+v", provider.gotHistory)
	}
}

func TestChatService_Reply_StoreFailuresDoNotFailRequest(t *testing.T) {
	provider := &stubProvider{reply: "ok"}
	store := newStubStore()
	store.loadErr = errors.New("redis down")
	store.saveErr = errors.New("redis down")
	svc := NewChatService(provider, "key", testFacts(t), 1, store)

	resp, err := svc.Reply(context.Background(), models.ChatRequest{Message: "hi", ConversationID: uuid.NewString()})
	if err != nil {
		t.Fatalf("expected store failures to be tolerated, got %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestChatService_Forget(t *testing.T) {
	store := newStubStore()
	svc := NewChatService(&stubProvider{}, "key", testFacts(t), 1, store)

	id := uuid.NewString()
	if err := svc.Forget(context.Background(), id); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != id {
		t.Fatalf("expected delete of %s, got %v", id, store.deleted)
	}

	var valErr *ValidationError
	if err := svc.Forget(context.Background(), "bogus"); !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError for bad id, got %v", err)
	}

	stateless := NewChatService(&stubProvider{}, "key", testFacts(t), 1, nil)
	if err := stateless.Forget(context.Background(), id); err != nil {
		t.Fatalf("expected no-op without store, got %v", err)
	}
}
