package repository

import (
	"context"
	"errors"

	"bioroute/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken
	ErrConflict = errors.New("conflict")
)

// ListOptions pages scenario listings
type ListOptions struct {
	Limit  int
	Offset int
}

// Repository defines the interface for scenario data access
type Repository interface {
	// Read operations
	GetScenario(ctx context.Context, id string) (*domain.Scenario, error)
	GetScenarioByShareToken(ctx context.Context, token string) (*domain.Scenario, error)
	ListScenarios(ctx context.Context, opts ListOptions) ([]domain.ScenarioSummary, error)
	FindByFingerprint(ctx context.Context, fingerprint string) ([]domain.ScenarioSummary, error)
	CountScenarios(ctx context.Context) (int, error)

	// Write operations
	CreateScenario(ctx context.Context, s *domain.Scenario) error
	UpdateScenario(ctx context.Context, s *domain.Scenario) error
	DeleteScenario(ctx context.Context, id string) error

	// Ping checks the underlying store
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
