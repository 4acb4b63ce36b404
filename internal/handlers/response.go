package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blgs-backend/internal/middleware"
	"blgs-backend/internal/models"
	"blgs-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: middleware.GetRequestID(r.Context()),
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr      *services.ValidationError
		cfgErr      *services.ConfigError
		upstreamErr *services.UpstreamError
		notFoundErr *services.NotFoundError
	)

	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", valErr.Message, r))
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("CONFIG_ERROR", cfgErr.Message, r))
	case errors.As(err, &upstreamErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", upstreamErr.Message, r))
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", notFoundErr.Message, r))
	default:
		slog.Error("unhandled_service_error", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
