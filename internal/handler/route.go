package handler

import (
	"net/http"

	"bioroute/internal/domain"
	"bioroute/internal/service"
)

// RouteHandler handles catalog, template and calculation requests
type RouteHandler struct {
	svc *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(svc *service.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

// CalculateResponse is the reply of a successful calculation
type CalculateResponse struct {
	Success bool `json:"success"`
	*service.Calculation
}

// ListTechnologies returns the catalog, optionally filtered by ?category=
func (h *RouteHandler) ListTechnologies(w http.ResponseWriter, r *http.Request) {
	techs, err := h.svc.Technologies(r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, "list technologies", err)
		return
	}
	writeJSON(w, r, techs, http.StatusOK)
}

// ListByCategory returns the technologies of one category
func (h *RouteHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	techs, err := h.svc.Technologies(r.PathValue("category"))
	if err != nil {
		writeServiceError(w, r, "list technologies", err)
		return
	}
	writeJSON(w, r, techs, http.StatusOK)
}

// GetTechnology returns one catalog entry
func (h *RouteHandler) GetTechnology(w http.ResponseWriter, r *http.Request) {
	tech, err := h.svc.Technology(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get technology", err)
		return
	}
	writeJSON(w, r, tech, http.StatusOK)
}

// ListTemplates returns the route templates
func (h *RouteHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.svc.Templates(), http.StatusOK)
}

// GetTemplate returns one route template
func (h *RouteHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.svc.Template(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get template", err)
		return
	}
	writeJSON(w, r, tpl, http.StatusOK)
}

// CalculateTemplate calculates a template as shipped
func (h *RouteHandler) CalculateTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.svc.Template(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get template", err)
		return
	}
	h.calculate(w, r, tpl.Route())
}

// Calculate evaluates the posted route. The response carries the route
// fingerprint as ETag; a matching If-None-Match yields 304.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var route domain.Route
	if !decodeJSON(w, r, &route) {
		return
	}
	h.calculate(w, r, route)
}

func (h *RouteHandler) calculate(w http.ResponseWriter, r *http.Request, route domain.Route) {
	etag := `"` + h.svc.Fingerprint(route) + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	calc, err := h.svc.Calculate(r.Context(), route)
	if err != nil {
		writeServiceError(w, r, "calculate route", err)
		return
	}

	w.Header().Set("ETag", `"`+calc.Fingerprint+`"`)
	writeJSON(w, r, CalculateResponse{Success: true, Calculation: calc}, http.StatusOK)
}

// Validate checks the posted route without calculating it
func (h *RouteHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var route domain.Route
	if !decodeJSON(w, r, &route) {
		return
	}
	writeJSON(w, r, h.svc.Validate(route), http.StatusOK)
}

// Register adds the catalog and calculation routes to mux
func (h *RouteHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/technologies", h.ListTechnologies)
	mux.HandleFunc("GET /api/technologies/category/{category}", h.ListByCategory)
	mux.HandleFunc("GET /api/technologies/{id}", h.GetTechnology)

	mux.HandleFunc("GET /api/templates", h.ListTemplates)
	mux.HandleFunc("GET /api/templates/{id}", h.GetTemplate)
	mux.HandleFunc("POST /api/templates/{id}/calculate", h.CalculateTemplate)

	mux.HandleFunc("POST /api/calculate", h.Calculate)
	mux.HandleFunc("POST /api/validate", h.Validate)
}
