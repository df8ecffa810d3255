package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"bioroute/internal/codec"
	"bioroute/internal/repository"
	"bioroute/internal/service"
)

// ScenarioHandler handles saved scenario requests
type ScenarioHandler struct {
	svc *service.ScenarioService
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(svc *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{svc: svc}
}

// CompareRequest lists the scenarios to compare
type CompareRequest struct {
	ScenarioIDs []string `json:"scenario_ids"`
}

// ListScenarios returns scenario summaries, paged by ?limit= and ?offset=
func (h *ScenarioHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, ErrorResponse{Error: "Invalid query", Details: err.Error()}, http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, ErrorResponse{Error: "Invalid query", Details: err.Error()}, http.StatusBadRequest)
		return
	}

	list, err := h.svc.List(r.Context(), repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		writeServiceError(w, r, "list scenarios", err)
		return
	}
	writeJSON(w, r, list, http.StatusOK)
}

// CreateScenario calculates and stores a new scenario
func (h *ScenarioHandler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var in service.ScenarioInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sc, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "create scenario", err)
		return
	}
	writeJSON(w, r, sc, http.StatusCreated)
}

// GetScenario returns one scenario with its stored results
func (h *ScenarioHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get scenario", err)
		return
	}
	writeJSON(w, r, sc, http.StatusOK)
}

// GetSharedScenario returns the scenario behind a share token
func (h *ScenarioHandler) GetSharedScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := h.svc.GetShared(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, "get shared scenario", err)
		return
	}
	writeJSON(w, r, sc, http.StatusOK)
}

// UpdateScenario replaces a scenario's route and recalculates it
func (h *ScenarioHandler) UpdateScenario(w http.ResponseWriter, r *http.Request) {
	var in service.ScenarioInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sc, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, r, "update scenario", err)
		return
	}
	writeJSON(w, r, sc, http.StatusOK)
}

// DeleteScenario removes a scenario
func (h *ScenarioHandler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SameRoute lists other scenarios with the same route fingerprint
func (h *ScenarioHandler) SameRoute(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.SameRoute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "find matching scenarios", err)
		return
	}
	writeJSON(w, r, list, http.StatusOK)
}

// Compare returns the summaries of two or more scenarios
func (h *ScenarioHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.svc.Compare(r.Context(), req.ScenarioIDs)
	if err != nil {
		writeServiceError(w, r, "compare scenarios", err)
		return
	}
	writeJSON(w, r, out, http.StatusOK)
}

// ExportScenario writes a scenario document, ?format=json (default) or yaml
func (h *ScenarioHandler) ExportScenario(w http.ResponseWriter, r *http.Request) {
	format := formatParam(r)
	c, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, r, ErrorResponse{Error: "Invalid format", Details: err.Error()}, http.StatusBadRequest)
		return
	}

	// buffer so a failed lookup can still produce a JSON error
	var buf bytes.Buffer
	id := r.PathValue("id")
	if err := h.svc.Export(r.Context(), id, format, &buf); err != nil {
		writeServiceError(w, r, "export scenario", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=scenario-%s.%s", id, c.Format()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportScenario creates a scenario from a posted document. The format
// comes from ?format= or, failing that, the Content-Type.
func (h *ScenarioHandler) ImportScenario(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" && strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = "yaml"
	}
	if format == "" {
		format = "json"
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	sc, err := h.svc.Import(r.Context(), format, r.Body)
	if err != nil {
		writeServiceError(w, r, "import scenario", err)
		return
	}
	writeJSON(w, r, sc, http.StatusCreated)
}

func formatParam(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	return "json"
}

// Register adds the scenario routes to mux
func (h *ScenarioHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/scenarios", h.ListScenarios)
	mux.HandleFunc("POST /api/scenarios", h.CreateScenario)
	mux.HandleFunc("POST /api/scenarios/import", h.ImportScenario)
	mux.HandleFunc("GET /api/scenarios/{id}", h.GetScenario)
	mux.HandleFunc("PUT /api/scenarios/{id}", h.UpdateScenario)
	mux.HandleFunc("DELETE /api/scenarios/{id}", h.DeleteScenario)
	mux.HandleFunc("GET /api/scenarios/{id}/export", h.ExportScenario)
	mux.HandleFunc("GET /api/scenarios/{id}/same-route", h.SameRoute)
	mux.HandleFunc("GET /api/shared/{token}", h.GetSharedScenario)

	mux.HandleFunc("POST /api/compare", h.Compare)
}
