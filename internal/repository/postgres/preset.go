package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
)

// PostgresPresetRepository implements the PresetRepository interface
type PostgresPresetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPresetRepository creates a new preset repository
func NewPresetRepository(config *RepositoryConfig) repositories.PresetRepository {
	return &PostgresPresetRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const presetColumns = "id, user_id, name, description, role_id, style_id, context_id, mode_id, usage_count, last_used_at, created_at, updated_at"

func scanPreset(row interface{ Scan(...interface{}) error }, preset *models.Preset) error {
	return row.Scan(
		&preset.ID,
		&preset.UserID,
		&preset.Name,
		&preset.Description,
		&preset.RoleID,
		&preset.StyleID,
		&preset.ContextID,
		&preset.ModeID,
		&preset.UsageCount,
		&preset.LastUsedAt,
		&preset.CreatedAt,
		&preset.UpdatedAt,
	)
}

// Create creates a new preset
func (r *PostgresPresetRepository) Create(ctx context.Context, preset *models.Preset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, role_id, style_id, context_id, mode_id, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		RETURNING id, usage_count, created_at, updated_at
	`, r.tables.Presets)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		preset.UserID,
		preset.Name,
		preset.Description,
		preset.RoleID,
		preset.StyleID,
		preset.ContextID,
		preset.ModeID,
		preset.CreatedAt,
		preset.UpdatedAt,
	).Scan(&preset.ID, &preset.UsageCount, &preset.CreatedAt, &preset.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			// A referenced component vanished between validation and insert
			return fmt.Errorf("preset slot reference: %w", domain.ErrIntegrity)
		}
		return fmt.Errorf("create preset: %w", err)
	}

	return nil
}

// GetByID retrieves a preset by ID, scoped to its owner
func (r *PostgresPresetRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Preset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, presetColumns, r.tables.Presets)

	var preset models.Preset
	executor := GetExecutor(ctx, r.pool)
	err := scanPreset(executor.QueryRow(ctx, query, id, userID), &preset)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get preset: %w", err)
	}

	return &preset, nil
}

// List retrieves the owner's presets in the given sort order
func (r *PostgresPresetRepository) List(ctx context.Context, userID string, sort models.PresetSort) ([]models.Preset, error) {
	// Sort keys are mapped here, never interpolated from caller input
	var orderBy string
	switch sort {
	case models.PresetSortUsage:
		orderBy = "usage_count DESC, updated_at DESC"
	case models.PresetSortRecent:
		orderBy = "last_used_at DESC NULLS LAST, updated_at DESC"
	default:
		orderBy = "name ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY %s
	`, presetColumns, r.tables.Presets, orderBy)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []models.Preset
	for rows.Next() {
		var preset models.Preset
		if err := scanPreset(rows, &preset); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		presets = append(presets, preset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}

	if presets == nil {
		presets = []models.Preset{}
	}

	return presets, nil
}

// Update updates a preset's name, description and slots. usage_count and
// last_used_at are deliberately excluded from the SET list.
func (r *PostgresPresetRepository) Update(ctx context.Context, preset *models.Preset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, role_id = $3, style_id = $4, context_id = $5, mode_id = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`, r.tables.Presets)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		preset.Name,
		preset.Description,
		preset.RoleID,
		preset.StyleID,
		preset.ContextID,
		preset.ModeID,
		preset.UpdatedAt,
		preset.ID,
		preset.UserID,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("preset slot reference: %w", domain.ErrIntegrity)
		}
		return fmt.Errorf("update preset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("preset %s: %w", preset.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a preset row. No cascade.
func (r *PostgresPresetRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Presets)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ClearSlotReferences empties every slot across the owner's presets that
// references the given component. One statement covers all four slot
// columns and every affected preset, so the fan-out is atomic by itself
// and joins the caller's transaction when one is in the context.
func (r *PostgresPresetRepository) ClearSlotReferences(ctx context.Context, componentID uuid.UUID, userID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET role_id    = CASE WHEN role_id    = $1 THEN NULL ELSE role_id    END,
		    style_id   = CASE WHEN style_id   = $1 THEN NULL ELSE style_id   END,
		    context_id = CASE WHEN context_id = $1 THEN NULL ELSE context_id END,
		    mode_id    = CASE WHEN mode_id    = $1 THEN NULL ELSE mode_id    END
		WHERE user_id = $2
		  AND (role_id = $1 OR style_id = $1 OR context_id = $1 OR mode_id = $1)
	`, r.tables.Presets)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, componentID, userID); err != nil {
		return fmt.Errorf("clear preset slot references: %w", err)
	}

	return nil
}

// IncrementUsage atomically adds one to the preset's usage_count and
// advances last_used_at. GREATEST keeps the later completion time when
// two turns commit out of order.
func (r *PostgresPresetRepository) IncrementUsage(ctx context.Context, id uuid.UUID, userID string, usedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET usage_count = usage_count + 1,
		    last_used_at = GREATEST(COALESCE(last_used_at, $1), $1)
		WHERE id = $2 AND user_id = $3
	`, r.tables.Presets)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, usedAt, id, userID)
	if err != nil {
		return fmt.Errorf("increment preset usage: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("preset %s: %w", id, domain.ErrIntegrity)
	}

	return nil
}
