package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bioroute/internal/ctxlog"
	"bioroute/internal/engine"
	"bioroute/internal/repository"
	"bioroute/internal/service"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	NodeID  string `json:"node_id,omitempty"`
	Edge    string `json:"edge,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		ctxlog.FromContext(r.Context()).Error("failed to encode JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, resp ErrorResponse, statusCode int) {
	writeJSON(w, r, resp, statusCode)
}

// writeServiceError maps service, repository and engine errors to a status
func writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	if e, ok := engine.AsError(err); ok {
		writeError(w, r, ErrorResponse{
			Error:  e.Message,
			Kind:   string(e.Kind),
			NodeID: e.NodeID,
			Edge:   e.EdgeKey,
		}, http.StatusUnprocessableEntity)
		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrTechnologyNotFound),
		errors.Is(err, service.ErrTemplateNotFound):
		writeError(w, r, ErrorResponse{Error: "Not found", Details: err.Error()}, http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, r, ErrorResponse{Error: "Invalid input", Details: err.Error()}, http.StatusBadRequest)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, r, ErrorResponse{Error: "Conflict", Details: err.Error()}, http.StatusConflict)
	default:
		ctxlog.FromContext(r.Context()).Error("request failed", "action", action, "error", err)
		writeError(w, r, ErrorResponse{Error: "Failed to " + action}, http.StatusInternalServerError)
	}
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, ErrorResponse{Error: "Invalid request body", Details: err.Error()}, http.StatusBadRequest)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
