package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// RecordUsageRequest is delivered by the generation-completion hook once
// a model response finishes, carrying whatever the resolver reported as
// actually used for that turn.
type RecordUsageRequest struct {
	UserID       string
	ComponentIDs []uuid.UUID
	PresetID     *uuid.UUID
	CompletedAt  time.Time
}

// UsageTracker records fragment/preset utilization after generation.
// All increments for one turn commit in a single transaction: a failure
// must never leave partial counts behind.
type UsageTracker interface {
	RecordUsage(ctx context.Context, req *RecordUsageRequest) error
}

// ComponentLookup is the capability the validator uses for cross-entity
// slot checks, so validation code doesn't embed store internals.
type ComponentLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID string) (map[uuid.UUID]*models.Component, error)
}
