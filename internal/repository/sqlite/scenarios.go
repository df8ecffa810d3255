package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"bioroute/internal/domain"
	"bioroute/internal/repository"
)

// CreateScenario inserts a new scenario
func (r *Repository) CreateScenario(ctx context.Context, s *domain.Scenario) error {
	row, err := fromDomain(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scenarios (`+scenarioColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.ID, row.Name, row.Description, row.Author, row.ShareToken, row.Fingerprint,
		row.Nodes, row.Edges, row.Results, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scenario %s: %w", s.ID, mapError(err))
	}
	return nil
}

// GetScenario retrieves a scenario by ID
func (r *Repository) GetScenario(ctx context.Context, id string) (*domain.Scenario, error) {
	return r.getOne(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE id = ?`, id)
}

// GetScenarioByShareToken retrieves a scenario by its share token
func (r *Repository) GetScenarioByShareToken(ctx context.Context, token string) (*domain.Scenario, error) {
	return r.getOne(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE share_token = ?`, token)
}

func (r *Repository) getOne(ctx context.Context, query string, arg string) (*domain.Scenario, error) {
	var row scenarioRow
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(row.scanArgs()...); err != nil {
		return nil, mapError(err)
	}
	return row.toDomain()
}

// ListScenarios returns scenario summaries, most recently updated first
func (r *Repository) ListScenarios(ctx context.Context, opts repository.ListOptions) ([]domain.ScenarioSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	return r.summaries(ctx, `
		SELECT id, name, author, share_token, json_array_length(nodes), updated_at
		FROM scenarios
		ORDER BY updated_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, opts.Offset)
}

// FindByFingerprint returns the scenarios whose route hashes to fingerprint
func (r *Repository) FindByFingerprint(ctx context.Context, fingerprint string) ([]domain.ScenarioSummary, error) {
	return r.summaries(ctx, `
		SELECT id, name, author, share_token, json_array_length(nodes), updated_at
		FROM scenarios
		WHERE fingerprint = ?
		ORDER BY updated_at DESC, id
	`, fingerprint)
}

func (r *Repository) summaries(ctx context.Context, query string, args ...interface{}) ([]domain.ScenarioSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	out := []domain.ScenarioSummary{}
	for rows.Next() {
		var (
			sum       domain.ScenarioSummary
			author    sql.NullString
			updatedAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &author, &sum.ShareToken, &sum.NodeCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		sum.Author = nullToString(author)
		if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenarios: %w", err)
	}
	return out, nil
}

// CountScenarios returns the number of stored scenarios
func (r *Repository) CountScenarios(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scenarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scenarios: %w", err)
	}
	return n, nil
}

// UpdateScenario replaces the mutable fields of a scenario.
// The id, share token and creation time are kept.
func (r *Repository) UpdateScenario(ctx context.Context, s *domain.Scenario) error {
	row, err := fromDomain(s)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE scenarios
		SET name = ?, description = ?, author = ?, fingerprint = ?,
			nodes = ?, edges = ?, results = ?, updated_at = ?
		WHERE id = ?
	`, row.Name, row.Description, row.Author, row.Fingerprint,
		row.Nodes, row.Edges, row.Results, row.UpdatedAt, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update scenario %s: %w", s.ID, mapError(err))
	}
	return requireAffected(result, s.ID)
}

// DeleteScenario removes a scenario
func (r *Repository) DeleteScenario(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	return requireAffected(result, id)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireAffected(result rowsAffected, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("scenario %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
