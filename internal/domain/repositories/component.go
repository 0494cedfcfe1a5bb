package repositories

import (
	"context"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// ComponentRepository defines the interface for component data access.
// Every lookup and mutation is scoped by userID in the query predicate so
// cross-owner access is structurally impossible, not just checked after.
type ComponentRepository interface {
	// Create inserts a new component and fills in its generated id and timestamps
	Create(ctx context.Context, component *models.Component) error

	// GetByID retrieves a component by id, scoped to its owner.
	// Returns domain.ErrNotFound for absent or foreign-owned ids.
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Component, error)

	// GetByIDs retrieves multiple components in one query, scoped to the owner.
	// Ids that don't resolve are simply missing from the result; no error.
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID string) (map[uuid.UUID]*models.Component, error)

	// List retrieves the owner's components ordered by updated_at DESC.
	// A non-nil kind filters to that kind only.
	List(ctx context.Context, userID string, kind *models.ComponentKind) ([]models.Component, error)

	// Update persists name/content/description/tags changes.
	// Kind and usage_count are never written here.
	Update(ctx context.Context, component *models.Component) error

	// Delete removes a component row. The caller is responsible for
	// running this inside the same transaction as the preset slot-clear
	// cascade. Returns domain.ErrNotFound if no owned row matched.
	Delete(ctx context.Context, id uuid.UUID, userID string) error

	// IncrementUsage atomically adds one to usage_count for each given
	// component. A single "add one" statement, never read-modify-write,
	// so concurrent turns can't lose updates. Returns domain.ErrIntegrity
	// if fewer rows matched than ids were given.
	IncrementUsage(ctx context.Context, ids []uuid.UUID, userID string) error
}
