package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bioroute/internal/domain"
	"bioroute/internal/repository"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Time Helpers
// ============================================================================

// timeLayout is fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// ============================================================================
// Error Helpers
// ============================================================================

// mapError translates driver errors into repository errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed") {
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	}
	return err
}

// ============================================================================
// Row Types
// ============================================================================

// scenarioRow represents a row from the scenarios table
type scenarioRow struct {
	ID          string
	Name        string
	Description string
	Author      sql.NullString
	ShareToken  string
	Fingerprint sql.NullString
	Nodes       string
	Edges       string
	Results     sql.NullString
	CreatedAt   string
	UpdatedAt   string
}

const scenarioColumns = `id, name, description, author, share_token, fingerprint, nodes, edges, results, created_at, updated_at`

// scanArgs returns pointers for scanning into the row
func (r *scenarioRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID, &r.Name, &r.Description, &r.Author, &r.ShareToken, &r.Fingerprint,
		&r.Nodes, &r.Edges, &r.Results, &r.CreatedAt, &r.UpdatedAt,
	}
}

// toDomain converts the row to a domain.Scenario
func (r *scenarioRow) toDomain() (*domain.Scenario, error) {
	s := &domain.Scenario{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Author:      nullToString(r.Author),
		ShareToken:  r.ShareToken,
		Fingerprint: nullToString(r.Fingerprint),
	}
	if err := json.Unmarshal([]byte(r.Nodes), &s.Nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nodes of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Edges), &s.Edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edges of %s: %w", r.ID, err)
	}
	if r.Results.Valid && r.Results.String != "" {
		s.Results = json.RawMessage(r.Results.String)
	}

	var err error
	if s.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// fromDomain flattens a scenario into column values
func fromDomain(s *domain.Scenario) (*scenarioRow, error) {
	nodes := s.Nodes
	if nodes == nil {
		nodes = []domain.RouteNode{}
	}
	edges := s.Edges
	if edges == nil {
		edges = []domain.RouteEdge{}
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal edges: %w", err)
	}

	return &scenarioRow{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Author:      stringToNull(s.Author),
		ShareToken:  s.ShareToken,
		Fingerprint: stringToNull(s.Fingerprint),
		Nodes:       string(nodesJSON),
		Edges:       string(edgesJSON),
		Results:     stringToNull(string(s.Results)),
		CreatedAt:   formatTime(s.CreatedAt),
		UpdatedAt:   formatTime(s.UpdatedAt),
	}, nil
}
