package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"blgs-backend/internal/models"
)

type geminiModelFactory interface {
	GenerativeModel(name string) *genai.GenerativeModel
}

var sendGeminiChat = func(ctx context.Context, cs *genai.ChatSession, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return cs.SendMessage(ctx, parts...)
}

// GeminiProvider talks to Gemini through the generative-ai-go SDK. Each call
// starts a fresh chat session seeded with the caller's history, so nothing is
// shared between conversations.
type GeminiProvider struct {
	client      *genai.Client
	models      geminiModelFactory
	modelName   string
	temperature float32
}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string, temperature float64) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		models:      client,
		modelName:   modelName,
		temperature: float32(temperature),
	}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	model := p.models.GenerativeModel(p.modelName)
	model.SetTemperature(p.temperature)
	model.SetTopP(0.95)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = toGeminiHistory(history)

	resp, err := sendGeminiChat(ctx, cs, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			slog.Warn("gemini_unexpected_finish", "candidate", i, "finish_reason", cand.FinishReason.String())
		}
	}

	return extractText(resp), nil
}

func toGeminiHistory(turns []models.ChatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := models.RoleUser
		if turn.Role == models.RoleModel {
			role = models.RoleModel
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return history
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

var _ Provider = (*GeminiProvider)(nil)
