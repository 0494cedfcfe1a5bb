package services

import (
	"context"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// CreateComponentRequest carries validated-at-the-edge input for creating
// a component. UserID comes from the authenticated context, never the body.
type CreateComponentRequest struct {
	UserID      string
	Kind        models.ComponentKind
	Name        string
	Content     string
	Description string
	Tags        []string
}

// UpdateComponentRequest supports partial updates via pointers - only
// provided fields change. Kind is immutable and deliberately absent.
type UpdateComponentRequest struct {
	Name        *string
	Content     *string
	Description *string // empty string clears
	Tags        *[]string
}

// ComponentService owns CRUD and lifecycle of prompt components
type ComponentService interface {
	// CreateComponent validates and persists a new component.
	// usage_count starts at zero; only the usage tracker touches it later.
	CreateComponent(ctx context.Context, req *CreateComponentRequest) (*models.Component, error)

	// GetComponent retrieves one owned component
	GetComponent(ctx context.Context, id uuid.UUID, userID string) (*models.Component, error)

	// ListComponents retrieves the owner's components, optionally filtered by kind
	ListComponents(ctx context.Context, userID string, kind *models.ComponentKind) ([]models.Component, error)

	// UpdateComponent applies a partial update after validating the result
	UpdateComponent(ctx context.Context, id uuid.UUID, userID string, req *UpdateComponentRequest) (*models.Component, error)

	// DeleteComponent removes the component and clears every preset slot
	// that referenced it, atomically. Presets themselves are untouched.
	DeleteComponent(ctx context.Context, id uuid.UUID, userID string) error
}
