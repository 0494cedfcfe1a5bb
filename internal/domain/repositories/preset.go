package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// PresetRepository defines the interface for preset data access.
// All queries are owner-scoped like ComponentRepository.
type PresetRepository interface {
	// Create inserts a new preset and fills in its generated id and timestamps
	Create(ctx context.Context, preset *models.Preset) error

	// GetByID retrieves a preset by id, scoped to its owner.
	// Returns domain.ErrNotFound for absent or foreign-owned ids.
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Preset, error)

	// List retrieves the owner's presets in the given sort order.
	List(ctx context.Context, userID string, sort models.PresetSort) ([]models.Preset, error)

	// Update persists name/description/slot changes.
	// usage_count and last_used_at are never written here.
	Update(ctx context.Context, preset *models.Preset) error

	// Delete removes a preset row. No cascade.
	Delete(ctx context.Context, id uuid.UUID, userID string) error

	// ClearSlotReferences empties every slot across the owner's presets
	// that references the given component id. Used by the component-delete
	// cascade; runs against the transaction in ctx when one is present.
	ClearSlotReferences(ctx context.Context, componentID uuid.UUID, userID string) error

	// IncrementUsage atomically adds one to the preset's usage_count and
	// advances last_used_at to usedAt if usedAt is later than the stored
	// value. Returns domain.ErrIntegrity if no owned row matched.
	IncrementUsage(ctx context.Context, id uuid.UUID, userID string, usedAt time.Time) error
}
