package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/httputil"
)

// Request DTOs. These are the transport shapes; handlers map them onto
// the service-layer request types, resolving tri-state PATCH fields and
// parsing ids.

// CreateComponentRequest is the POST /api/components body
type CreateComponentRequest struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateComponentRequest is the PATCH /api/components/{id} body.
// Absent fields are left unchanged; description supports explicit null
// to clear it.
type UpdateComponentRequest struct {
	Name        *string                 `json:"name"`
	Content     *string                 `json:"content"`
	Description httputil.OptionalString `json:"description"`
	Tags        *[]string               `json:"tags"`
}

// CreatePresetRequest is the POST /api/presets body. Slot ids may be
// omitted or null for empty slots; at least one must be set.
type CreatePresetRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RoleID      *string `json:"role_id"`
	StyleID     *string `json:"style_id"`
	ContextID   *string `json:"context_id"`
	ModeID      *string `json:"mode_id"`
}

// UpdatePresetRequest is the PATCH /api/presets/{id} body. Slot fields
// are tri-state: absent leaves the slot alone, null clears it, a value
// re-points it.
type UpdatePresetRequest struct {
	Name        *string                 `json:"name"`
	Description httputil.OptionalString `json:"description"`
	RoleID      httputil.OptionalString `json:"role_id"`
	StyleID     httputil.OptionalString `json:"style_id"`
	ContextID   httputil.OptionalString `json:"context_id"`
	ModeID      httputil.OptionalString `json:"mode_id"`
}

// ResolvePromptRequest is the POST /api/prompts/resolve body: one chat
// turn's prompt selection.
type ResolvePromptRequest struct {
	PresetID  *string `json:"preset_id"`
	RoleID    *string `json:"role_id"`
	StyleID   *string `json:"style_id"`
	ContextID *string `json:"context_id"`
	ModeID    *string `json:"mode_id"`
}

// ResolvePromptResponse reports the rendered prompt (null means "use the
// default system prompt") and what was used, for the completion hook.
type ResolvePromptResponse struct {
	Prompt           *string     `json:"prompt"`
	UsedPresetID     *uuid.UUID  `json:"used_preset_id"`
	UsedComponentIDs []uuid.UUID `json:"used_component_ids"`
}

// RecordUsageRequest is the POST /api/prompts/usage body, sent by the
// chat system once generation completes.
type RecordUsageRequest struct {
	ComponentIDs []string   `json:"component_ids"`
	PresetID     *string    `json:"preset_id"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// parseOptionalID parses a nullable id field into a component reference
func parseOptionalID(field string, value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid id", field)
	}
	return &id, nil
}

// parseSlotPatch maps a tri-state JSON field onto a slot patch
func parseSlotPatch(field string, value httputil.OptionalString) (models.OptionalSlotID, error) {
	if !value.Present {
		return models.OptionalSlotID{}, nil
	}
	if value.Value == nil {
		return models.OptionalSlotID{Present: true}, nil
	}
	id, err := uuid.Parse(*value.Value)
	if err != nil {
		return models.OptionalSlotID{}, fmt.Errorf("%s: invalid id", field)
	}
	return models.OptionalSlotID{Present: true, Value: &id}, nil
}
