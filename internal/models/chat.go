package models

import (
	"encoding/json"
	"strings"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one message in a conversation, tagged with its speaker.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type chatPart struct {
	Text string `json:"text"`
}

// UnmarshalJSON accepts both {"role","text"} and the Gemini-style
// {"role","parts":[{"text"}]} shape. "assistant" is read as "model".
func (t *ChatTurn) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role  string     `json:"role"`
		Text  *string    `json:"text"`
		Parts []chatPart `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Role = NormalizeRole(raw.Role)
	if raw.Text != nil {
		t.Text = *raw.Text
		return nil
	}

	var b strings.Builder
	for _, p := range raw.Parts {
		b.WriteString(p.Text)
	}
	t.Text = b.String()
	return nil
}

// NormalizeRole lowercases a role and maps assistant to model.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "assistant" {
		return RoleModel
	}
	return role
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message        string     `json:"message"`
	History        []ChatTurn `json:"history"`
	ConversationID string     `json:"conversation_id,omitempty"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// API Error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}
