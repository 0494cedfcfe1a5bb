package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
)

// PostgresComponentRepository implements the ComponentRepository interface
type PostgresComponentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewComponentRepository creates a new component repository
func NewComponentRepository(config *RepositoryConfig) repositories.ComponentRepository {
	return &PostgresComponentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new component
func (r *PostgresComponentRepository) Create(ctx context.Context, component *models.Component) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, kind, name, content, description, tags, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		RETURNING id, usage_count, created_at, updated_at
	`, r.tables.Components)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		component.UserID,
		component.Kind,
		component.Name,
		component.Content,
		component.Description,
		component.Tags,
		component.CreatedAt,
		component.UpdatedAt,
	).Scan(&component.ID, &component.UsageCount, &component.CreatedAt, &component.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create component: %w", err)
	}

	return nil
}

// GetByID retrieves a component by ID, scoped to its owner
func (r *PostgresComponentRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Component, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, kind, name, content, description, tags, usage_count, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Components)

	var component models.Component
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, userID).Scan(
		&component.ID,
		&component.UserID,
		&component.Kind,
		&component.Name,
		&component.Content,
		&component.Description,
		&component.Tags,
		&component.UsageCount,
		&component.CreatedAt,
		&component.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get component: %w", err)
	}

	return &component, nil
}

// GetByIDs retrieves multiple components in one query, scoped to the owner.
// Ids that don't resolve are simply absent from the result map.
func (r *PostgresComponentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID, userID string) (map[uuid.UUID]*models.Component, error) {
	result := make(map[uuid.UUID]*models.Component, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, kind, name, content, description, tags, usage_count, created_at, updated_at
		FROM %s
		WHERE id = ANY($1) AND user_id = $2
	`, r.tables.Components)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("get components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var component models.Component
		err := rows.Scan(
			&component.ID,
			&component.UserID,
			&component.Kind,
			&component.Name,
			&component.Content,
			&component.Description,
			&component.Tags,
			&component.UsageCount,
			&component.CreatedAt,
			&component.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		result[component.ID] = &component
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}

	return result, nil
}

// List retrieves the owner's components, ordered by updated_at DESC.
// A non-nil kind restricts the result to that kind.
func (r *PostgresComponentRepository) List(ctx context.Context, userID string, kind *models.ComponentKind) ([]models.Component, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, kind, name, content, description, tags, usage_count, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Components)

	args := []interface{}{userID}
	if kind != nil {
		query += " AND kind = $2"
		args = append(args, *kind)
	}
	query += " ORDER BY updated_at DESC"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	var components []models.Component
	for rows.Next() {
		var component models.Component
		err := rows.Scan(
			&component.ID,
			&component.UserID,
			&component.Kind,
			&component.Name,
			&component.Content,
			&component.Description,
			&component.Tags,
			&component.UsageCount,
			&component.CreatedAt,
			&component.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		components = append(components, component)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}

	// Return empty slice instead of nil if no components
	if components == nil {
		components = []models.Component{}
	}

	return components, nil
}

// Update updates a component's mutable fields. Kind and usage_count are
// deliberately excluded from the SET list.
func (r *PostgresComponentRepository) Update(ctx context.Context, component *models.Component) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, content = $2, description = $3, tags = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, r.tables.Components)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		component.Name,
		component.Content,
		component.Description,
		component.Tags,
		component.UpdatedAt,
		component.ID,
		component.UserID,
	)

	if err != nil {
		return fmt.Errorf("update component: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("component %s: %w", component.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a component row. Callers run this inside the same
// transaction as the preset slot-clear cascade.
func (r *PostgresComponentRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Components)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete component: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementUsage atomically adds one to usage_count for each given id.
// The add happens in SQL, never as read-modify-write in the application,
// so concurrent turns referencing the same component can't lose updates.
func (r *PostgresComponentRepository) IncrementUsage(ctx context.Context, ids []uuid.UUID, userID string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET usage_count = usage_count + 1
		WHERE id = ANY($1) AND user_id = $2
	`, r.tables.Components)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, userID)
	if err != nil {
		return fmt.Errorf("increment component usage: %w", err)
	}

	// Fewer matches than ids means a referenced component vanished between
	// validation and commit; abort so the surrounding tx rolls back.
	if result.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("expected %d components, matched %d: %w", len(ids), result.RowsAffected(), domain.ErrIntegrity)
	}

	return nil
}
