package services

import "errors"

// ErrMissingCredential is returned when no Gemini API key is configured.
var ErrMissingCredential = errors.New("gemini api key is not configured")

type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// ConfigError is a server misconfiguration detected before any upstream call.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string { return e.Message }

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError wraps a model provider failure. Message is safe to show to
// clients; Err carries the provider detail and is only logged.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }
