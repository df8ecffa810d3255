package service

import (
	"context"
	"fmt"
	"time"

	"bioroute/internal/catalog"
	"bioroute/internal/ctxlog"
	"bioroute/internal/domain"
	"bioroute/internal/engine"
	"bioroute/internal/metrics"
)

// Calculation is a successful engine run together with its inputs' identity
type Calculation struct {
	*engine.Result
	Fingerprint    string `json:"fingerprint"`
	CatalogVersion string `json:"catalog_version"`
}

// RouteService provides catalog lookups, route calculation and validation
type RouteService struct {
	store   *catalog.Store
	engine  *engine.Engine
	metrics *metrics.Metrics
}

// NewRouteService creates a new route service. m may be nil.
func NewRouteService(store *catalog.Store, eng *engine.Engine, m *metrics.Metrics) *RouteService {
	return &RouteService{
		store:   store,
		engine:  eng,
		metrics: m,
	}
}

// Snapshot returns the catalog currently in use
func (s *RouteService) Snapshot() *catalog.Snapshot {
	return s.store.Current()
}

// Technology returns one catalog entry
func (s *RouteService) Technology(id string) (domain.Technology, error) {
	tech, ok := s.store.Current().Catalog.Lookup(id)
	if !ok {
		return domain.Technology{}, fmt.Errorf("technology %s: %w", id, ErrTechnologyNotFound)
	}
	return tech, nil
}

// Technologies lists the catalog, optionally restricted to one category
func (s *RouteService) Technologies(category string) ([]domain.Technology, error) {
	c := s.store.Current().Catalog
	if category == "" {
		return c.All(), nil
	}
	cat := domain.Category(category)
	if !cat.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", category, ErrInvalidInput)
	}
	return c.ByCategory(cat), nil
}

// Template returns one route template
func (s *RouteService) Template(id string) (domain.Template, error) {
	tpl, ok := s.store.Current().Template(id)
	if !ok {
		return domain.Template{}, fmt.Errorf("template %s: %w", id, ErrTemplateNotFound)
	}
	return tpl, nil
}

// Templates lists the route templates
func (s *RouteService) Templates() []domain.Template {
	return s.store.Current().Templates
}

// Fingerprint returns the calculation fingerprint of route against the
// current catalog
func (s *RouteService) Fingerprint(route domain.Route) string {
	return Fingerprint(s.store.Current().Digest, route)
}

// Calculate evaluates route against the current catalog snapshot
func (s *RouteService) Calculate(ctx context.Context, route domain.Route) (*Calculation, error) {
	snap := s.store.Current()
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	result, err := s.engine.Calculate(snap.Catalog, route)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if e, ok := engine.AsError(err); ok {
			outcome = string(e.Kind)
		}
		s.metrics.ObserveCalculation(outcome, len(route.Nodes), elapsed)
		logger.Debug("route calculation failed", "error", err, "nodes", len(route.Nodes))
		return nil, err
	}

	s.metrics.ObserveCalculation("ok", len(route.Nodes), elapsed)
	logger.Debug("route calculated",
		"nodes", len(route.Nodes),
		"edges", len(route.Edges),
		"biogas_nm3_day", result.Summary.BiogasNm3Day,
		"duration", elapsed)

	return &Calculation{
		Result:         result,
		Fingerprint:    Fingerprint(snap.Digest, route),
		CatalogVersion: snap.Catalog.Version(),
	}, nil
}

// CalculateTemplate evaluates a template route
func (s *RouteService) CalculateTemplate(ctx context.Context, id string) (*Calculation, error) {
	tpl, err := s.Template(id)
	if err != nil {
		return nil, err
	}
	return s.Calculate(ctx, tpl.Route())
}
