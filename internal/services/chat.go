package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"blgs-backend/internal/models"
)

const (
	missingKeyMessage = "Server configuration error: API Key missing"
	upstreamMessage   = "Failed to process request"
	fallbackReply     = "I didn't catch that. Could you rephrase?"
)

// ConversationStore keeps transcripts keyed by a client-held conversation id.
type ConversationStore interface {
	Load(ctx context.Context, id string) ([]models.ChatTurn, error)
	Save(ctx context.Context, id string, turns []models.ChatTurn) error
	Delete(ctx context.Context, id string) error
}

// ChatService proxies sales questions to the model. It holds no per-user
// state; the context for each call is built from the request, or from the
// store when a conversation id is supplied.
type ChatService struct {
	provider Provider
	apiKey   string
	facts    *models.Facts
	store    ConversationStore
	rateChan chan struct{} // nil means unlimited
}

func NewChatService(provider Provider, apiKey string, facts *models.Facts, concurrentReqs int, store ConversationStore) *ChatService {
	var rateChan chan struct{}
	if concurrentReqs > 0 {
		rateChan = make(chan struct{}, concurrentReqs)
		for i := 0; i < concurrentReqs; i++ {
			rateChan <- struct{}{}
		}
	}

	return &ChatService{
		provider: provider,
		apiKey:   strings.TrimSpace(apiKey),
		facts:    facts,
		store:    store,
		rateChan: rateChan,
	}
}

// Reply validates req, forwards it to the provider once and returns the
// model's text.
func (s *ChatService) Reply(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Message: "Message is required"}
	}
	if req.ConversationID != "" {
		if _, err := uuid.Parse(req.ConversationID); err != nil {
			return nil, &ValidationError{Message: "Invalid conversation ID"}
		}
	}

	history := make([]models.ChatTurn, len(req.History))
	for i, turn := range req.History {
		role := models.NormalizeRole(turn.Role)
		if role != models.RoleUser && role != models.RoleModel {
			return nil, &ValidationError{Message: fmt.Sprintf("history[%d]: role must be %q or %q", i, models.RoleUser, models.RoleModel)}
		}
		history[i] = models.ChatTurn{Role: role, Text: turn.Text}
	}

	// Missing credential short-circuits before any outbound call
	if s.apiKey == "" || s.provider == nil {
		slog.Error("chat_missing_credential")
		return nil, &ConfigError{Message: missingKeyMessage, Err: ErrMissingCredential}
	}

	if len(history) == 0 && req.ConversationID != "" && s.store != nil {
		history = s.loadHistory(ctx, req.ConversationID)
	}

	if err := s.acquireRate(ctx); err != nil {
		return nil, &UpstreamError{Message: upstreamMessage, Err: err}
	}
	defer s.releaseRate()

	text, err := s.provider.Generate(ctx, RenderSystemPrompt(s.facts), history, req.Message)
	if err != nil {
		slog.Error("chat_upstream_failed",
			"error", err,
			"history_turns", len(history),
		)
		return nil, &UpstreamError{Message: upstreamMessage, Err: err}
	}

	if strings.TrimSpace(text) == "" {
		slog.Warn("chat_empty_reply", "history_turns", len(history))
		text = fallbackReply
	}

	resp := &models.ChatResponse{Text: text}
	if s.store != nil {
		resp.ConversationID = s.remember(ctx, req.ConversationID, history, req.Message, text)
	}
	return resp, nil
}

// Forget drops a stored conversation. Without a store it is a no-op.
func (s *ChatService) Forget(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Message: "Invalid conversation ID"}
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (s *ChatService) loadHistory(ctx context.Context, id string) []models.ChatTurn {
	turns, err := s.store.Load(ctx, id)
	if err != nil {
		slog.Warn("chat_history_load_failed", "conversation_id", id, "error", err)
		return nil
	}
	return turns
}

// remember saves the transcript and returns the conversation id. A store
// failure is logged only; the reply has already been produced.
func (s *ChatService) remember(ctx context.Context, id string, history []models.ChatTurn, message, reply string) string {
	if id == "" {
		id = uuid.NewString()
	}

	transcript := make([]models.ChatTurn, 0, len(history)+2)
	transcript = append(transcript, history...)
	transcript = append(transcript,
		models.ChatTurn{Role: models.RoleUser, Text: message},
		models.ChatTurn{Role: models.RoleModel, Text: reply},
	)

	if err := s.store.Save(ctx, id, transcript); err != nil {
		slog.Warn("chat_history_save_failed", "conversation_id", id, "error", err)
	}
	return id
}

// acquireRate blocks until a provider slot is available
func (s *ChatService) acquireRate(ctx context.Context) error {
	if s.rateChan == nil {
		return nil
	}
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChatService) releaseRate() {
	if s.rateChan == nil {
		return
	}
	s.rateChan <- struct{}{}
}
