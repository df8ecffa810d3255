package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"bioroute/internal/codec"
	"bioroute/internal/ctxlog"
	"bioroute/internal/domain"
	"bioroute/internal/engine"
	"bioroute/internal/metrics"
	"bioroute/internal/repository"
)

const shareTokenAttempts = 3

// ScenarioInput is the user-editable part of a scenario
type ScenarioInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Author      string             `json:"author"`
	Nodes       []domain.RouteNode `json:"nodes"`
	Edges       []domain.RouteEdge `json:"edges"`
}

// Route returns the input graph
func (in ScenarioInput) Route() domain.Route {
	return domain.Route{Nodes: in.Nodes, Edges: in.Edges}
}

// Comparison is one column of a scenario comparison
type Comparison struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Fingerprint string         `json:"fingerprint"`
	Summary     engine.Summary `json:"summary"`
	SameRouteAs []string       `json:"same_route_as,omitempty"`
}

// ScenarioService provides business logic for saved scenarios
type ScenarioService struct {
	repo     repository.Repository
	routes   *RouteService
	eventBus *EventBus
	metrics  *metrics.Metrics
}

// NewScenarioService creates a new scenario service
func NewScenarioService(repo repository.Repository, routes *RouteService, eventBus *EventBus, m *metrics.Metrics) *ScenarioService {
	return &ScenarioService{
		repo:     repo,
		routes:   routes,
		eventBus: eventBus,
		metrics:  m,
	}
}

// Create calculates the input route and stores it as a new scenario with a
// fresh id and share token
func (s *ScenarioService) Create(ctx context.Context, in ScenarioInput) (*domain.Scenario, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	sc := domain.NewScenario(uuid.NewString(), in.Name, in.Route())
	sc.Description = in.Description
	sc.Author = in.Author
	if err := s.calculate(ctx, sc); err != nil {
		return nil, err
	}

	var err error
	for attempt := 0; attempt < shareTokenAttempts; attempt++ {
		sc.ShareToken = newShareToken()
		err = s.repo.CreateScenario(ctx, sc)
		if !errors.Is(err, repository.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveScenario("create")
	s.logDuplicates(ctx, sc)
	s.eventBus.Publish(Event{
		Type:    EventScenarioCreated,
		Payload: map[string]string{"scenario_id": sc.ID, "name": sc.Name},
	})
	return sc, nil
}

// Get retrieves a scenario by id
func (s *ScenarioService) Get(ctx context.Context, id string) (*domain.Scenario, error) {
	return s.repo.GetScenario(ctx, id)
}

// GetShared retrieves a scenario by share token
func (s *ScenarioService) GetShared(ctx context.Context, token string) (*domain.Scenario, error) {
	return s.repo.GetScenarioByShareToken(ctx, token)
}

// List returns scenario summaries, most recently updated first
func (s *ScenarioService) List(ctx context.Context, opts repository.ListOptions) ([]domain.ScenarioSummary, error) {
	return s.repo.ListScenarios(ctx, opts)
}

// Count returns the number of stored scenarios
func (s *ScenarioService) Count(ctx context.Context) (int, error) {
	return s.repo.CountScenarios(ctx)
}

// Update replaces the editable fields of a scenario and recalculates it
func (s *ScenarioService) Update(ctx context.Context, id string, in ScenarioInput) (*domain.Scenario, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	sc, err := s.repo.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}
	sc.Name = in.Name
	sc.Description = in.Description
	sc.Author = in.Author
	sc.Nodes = in.Nodes
	sc.Edges = in.Edges
	sc.UpdatedAt = time.Now().UTC()
	if err := s.calculate(ctx, sc); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateScenario(ctx, sc); err != nil {
		return nil, err
	}

	s.metrics.ObserveScenario("update")
	s.eventBus.Publish(Event{
		Type:    EventScenarioUpdated,
		Payload: map[string]string{"scenario_id": sc.ID},
	})
	return sc, nil
}

// Delete removes a scenario
func (s *ScenarioService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteScenario(ctx, id); err != nil {
		return err
	}

	s.metrics.ObserveScenario("delete")
	s.eventBus.Publish(Event{
		Type:    EventScenarioDeleted,
		Payload: map[string]string{"scenario_id": id},
	})
	return nil
}

// SameRoute lists the other scenarios whose route fingerprint matches id's
func (s *ScenarioService) SameRoute(ctx context.Context, id string) ([]domain.ScenarioSummary, error) {
	sc, err := s.repo.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.repo.FindByFingerprint(ctx, sc.Fingerprint)
	if err != nil {
		return nil, err
	}
	others := make([]domain.ScenarioSummary, 0, len(matches))
	for _, m := range matches {
		if m.ID != id {
			others = append(others, m)
		}
	}
	return others, nil
}

// Compare returns the summaries of two or more scenarios side by side.
// Stored results are used when their fingerprint still matches the current
// catalog; otherwise the scenario is recalculated.
func (s *ScenarioService) Compare(ctx context.Context, ids []string) ([]Comparison, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("compare needs at least 2 scenarios, got %d: %w", len(ids), ErrInvalidInput)
	}

	out := make([]Comparison, 0, len(ids))
	byFingerprint := make(map[string][]string)
	for _, id := range ids {
		sc, err := s.repo.GetScenario(ctx, id)
		if err != nil {
			return nil, err
		}
		summary, err := s.summary(ctx, sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", id, err)
		}
		out = append(out, Comparison{
			ID:          sc.ID,
			Name:        sc.Name,
			Fingerprint: sc.Fingerprint,
			Summary:     summary,
		})
		byFingerprint[sc.Fingerprint] = append(byFingerprint[sc.Fingerprint], sc.ID)
	}

	for i := range out {
		for _, other := range byFingerprint[out[i].Fingerprint] {
			if other != out[i].ID {
				out[i].SameRouteAs = append(out[i].SameRouteAs, other)
			}
		}
	}

	s.metrics.ObserveScenario("compare")
	return out, nil
}

// Export writes a scenario in the given format
func (s *ScenarioService) Export(ctx context.Context, id, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	sc, err := s.repo.GetScenario(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Export(sc, w); err != nil {
		return err
	}
	s.metrics.ObserveScenario("export")
	return nil
}

// Import reads a scenario document and creates it
func (s *ScenarioService) Import(ctx context.Context, format string, r io.Reader) (*domain.Scenario, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	doc, err := c.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	s.metrics.ObserveScenario("import")
	return s.Create(ctx, ScenarioInput{
		Name:        doc.Name,
		Description: doc.Description,
		Author:      doc.Author,
		Nodes:       doc.Nodes,
		Edges:       doc.Edges,
	})
}

func (s *ScenarioService) calculate(ctx context.Context, sc *domain.Scenario) error {
	calc, err := s.routes.Calculate(ctx, sc.Route())
	if err != nil {
		return err
	}
	results, err := json.Marshal(calc.Result)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	sc.Results = results
	sc.Fingerprint = calc.Fingerprint
	return nil
}

func (s *ScenarioService) summary(ctx context.Context, sc *domain.Scenario) (engine.Summary, error) {
	if len(sc.Results) > 0 && sc.Fingerprint == s.routes.Fingerprint(sc.Route()) {
		var stored engine.Result
		if err := json.Unmarshal(sc.Results, &stored); err == nil {
			return stored.Summary, nil
		}
	}
	calc, err := s.routes.Calculate(ctx, sc.Route())
	if err != nil {
		return engine.Summary{}, err
	}
	return calc.Summary, nil
}

func (s *ScenarioService) logDuplicates(ctx context.Context, sc *domain.Scenario) {
	matches, err := s.repo.FindByFingerprint(ctx, sc.Fingerprint)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("fingerprint lookup failed", "scenario_id", sc.ID, "error", err)
		return
	}
	if len(matches) > 1 {
		ctxlog.FromContext(ctx).Info("scenario repeats an existing route",
			"scenario_id", sc.ID,
			"fingerprint", sc.Fingerprint,
			"matches", len(matches)-1)
	}
}

func (s *ScenarioService) validateInput(in ScenarioInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("scenario name is required: %w", ErrInvalidInput)
	}
	if len(in.Nodes) == 0 {
		return fmt.Errorf("scenario has no nodes: %w", ErrInvalidInput)
	}
	return nil
}

// newShareToken returns 8 hex characters
func newShareToken() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:4])
}
