package service

import (
	"context"
	"log/slog"
	"time"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/repositories"
	"promptdeck/internal/domain/services"
)

// usageTracker implements the UsageTracker interface
type usageTracker struct {
	componentRepo repositories.ComponentRepository
	presetRepo    repositories.PresetRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewUsageTracker creates a new usage tracker
func NewUsageTracker(
	componentRepo repositories.ComponentRepository,
	presetRepo repositories.PresetRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.UsageTracker {
	return &usageTracker{
		componentRepo: componentRepo,
		presetRepo:    presetRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// RecordUsage increments usage counters for everything one completed
// turn actually used. All increments commit in a single transaction, so
// a failure (or a cancelled request) never leaves partial counts. The
// increments themselves are atomic adds in SQL, safe under concurrent
// turns referencing the same rows.
func (t *usageTracker) RecordUsage(ctx context.Context, req *services.RecordUsageRequest) error {
	if req.UserID == "" {
		return &domain.ValidationError{Fields: map[string]string{"user_id": "cannot be blank"}}
	}
	if len(req.ComponentIDs) == 0 && req.PresetID == nil {
		// Turn used the default prompt; nothing to record
		return nil
	}

	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	err := t.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := t.componentRepo.IncrementUsage(txCtx, req.ComponentIDs, req.UserID); err != nil {
			return err
		}
		if req.PresetID != nil {
			return t.presetRepo.IncrementUsage(txCtx, *req.PresetID, req.UserID, completedAt)
		}
		return nil
	})
	if err != nil {
		return err
	}

	t.logger.Info("usage recorded",
		"components", len(req.ComponentIDs),
		"preset_used", req.PresetID != nil,
		"user_id", req.UserID,
	)

	return nil
}
