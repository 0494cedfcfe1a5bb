package services

import (
	"context"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// CreatePresetRequest carries input for creating a preset. Slots maps
// component kind to the referenced component id; kinds left out (or nil)
// are empty slots. At least one slot must be supplied.
type CreatePresetRequest struct {
	UserID      string
	Name        string
	Description string
	Slots       map[models.ComponentKind]*uuid.UUID
}

// UpdatePresetRequest supports partial updates. Slot fields are tri-state:
// absent means unchanged, null clears the slot, a value re-points it.
// The resulting preset must still have at least one non-empty slot.
type UpdatePresetRequest struct {
	Name        *string
	Description *string // empty string clears
	Role        models.OptionalSlotID
	Style       models.OptionalSlotID
	Context     models.OptionalSlotID
	Mode        models.OptionalSlotID
}

// Slot returns the tri-state patch for the given kind.
func (r *UpdatePresetRequest) Slot(kind models.ComponentKind) models.OptionalSlotID {
	switch kind {
	case models.KindRole:
		return r.Role
	case models.KindStyle:
		return r.Style
	case models.KindContext:
		return r.Context
	case models.KindMode:
		return r.Mode
	}
	return models.OptionalSlotID{}
}

// PresetService owns CRUD of named component combinations
type PresetService interface {
	// CreatePreset validates slot references and persists the preset.
	// Each referenced component's usage_count is incremented in the same
	// transaction as the insert: being added to a preset is a usage signal.
	CreatePreset(ctx context.Context, req *CreatePresetRequest) (*models.Preset, error)

	// GetPreset retrieves one owned preset with all slots resolved
	GetPreset(ctx context.Context, id uuid.UUID, userID string) (*models.PresetDetail, error)

	// ListPresets retrieves the owner's presets in the given sort order
	ListPresets(ctx context.Context, userID string, sort models.PresetSort) ([]models.Preset, error)

	// UpdatePreset applies a partial update; the resulting state is
	// re-validated as a whole, so an update that would empty every slot
	// is rejected with no partial application.
	UpdatePreset(ctx context.Context, id uuid.UUID, userID string, req *UpdatePresetRequest) (*models.Preset, error)

	// DeletePreset removes the preset. Components are untouched.
	DeletePreset(ctx context.Context, id uuid.UUID, userID string) error
}
