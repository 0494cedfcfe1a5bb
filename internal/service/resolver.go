package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
	"promptdeck/internal/domain/services"
	"promptdeck/internal/service/prompt"
)

// promptResolver implements the PromptResolver interface. It holds no
// per-request state; each call builds an ephemeral resolution context,
// feeds it to the compositor and discards it.
type promptResolver struct {
	componentRepo repositories.ComponentRepository
	presetRepo    repositories.PresetRepository
	compositor    *prompt.Compositor
	logger        *slog.Logger
}

// NewPromptResolver creates a new prompt resolver
func NewPromptResolver(
	componentRepo repositories.ComponentRepository,
	presetRepo repositories.PresetRepository,
	compositor *prompt.Compositor,
	logger *slog.Logger,
) services.PromptResolver {
	return &promptResolver{
		componentRepo: componentRepo,
		presetRepo:    presetRepo,
		compositor:    compositor,
		logger:        logger,
	}
}

// ResolveForChatTurn decides which fragments apply to one turn.
// Precedence is strict: an owned preset wins outright and its slots are
// used verbatim (explicit ids in the same request are ignored, never
// merged); otherwise explicit ids resolve independently with per-slot
// fail-open; otherwise the default system prompt stands.
func (r *promptResolver) ResolveForChatTurn(ctx context.Context, req *services.ResolveRequest) (*services.ResolveResult, error) {
	rc, err := r.buildContext(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &services.ResolveResult{
		UsedPresetID:     rc.UsedPresetID,
		UsedComponentIDs: rc.UsedIDs,
	}

	fragments := make(map[models.ComponentKind]string, len(models.Kinds))
	for _, kind := range models.Kinds {
		if component := rc.Fragments[kind]; component != nil {
			fragments[kind] = component.Content
		}
	}

	if text, ok := r.compositor.Compose(fragments); ok {
		result.Prompt = &text
	}

	return result, nil
}

// buildContext loads the effective fragment set for the turn
func (r *promptResolver) buildContext(ctx context.Context, req *services.ResolveRequest) (*models.ResolutionContext, error) {
	rc := &models.ResolutionContext{
		Fragments: make(map[models.ComponentKind]*models.Component, len(models.Kinds)),
	}

	if req.PresetID != nil {
		preset, err := r.presetRepo.GetByID(ctx, *req.PresetID, req.UserID)
		if err == nil {
			return rc, r.fillFromPreset(ctx, rc, preset, req.UserID)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Preset didn't resolve for this caller; fall through to the
		// explicit ids rather than aborting the turn
		r.logger.Warn("preset did not resolve, falling back",
			"preset_id", *req.PresetID,
			"user_id", req.UserID,
		)
	}

	if err := r.fillFromSlotIDs(ctx, rc, req.SlotIDs, req.UserID); err != nil {
		return nil, err
	}
	return rc, nil
}

// fillFromPreset uses the preset's slots verbatim
func (r *promptResolver) fillFromPreset(ctx context.Context, rc *models.ResolutionContext, preset *models.Preset, userID string) error {
	found, err := r.componentRepo.GetByIDs(ctx, preset.SlotIDs(), userID)
	if err != nil {
		return err
	}

	rc.UsedPresetID = &preset.ID
	for _, kind := range models.Kinds {
		slotID := preset.SlotID(kind)
		if slotID == nil {
			continue
		}
		component, ok := found[*slotID]
		if !ok {
			// Slot invariants make this unreachable in practice; drop the
			// slot but keep the turn alive
			r.logger.Warn("preset slot reference failed to load",
				"preset_id", preset.ID,
				"kind", kind,
				"component_id", *slotID,
			)
			continue
		}
		rc.Fragments[kind] = component
		rc.UsedIDs = append(rc.UsedIDs, component.ID)
	}

	return nil
}

// fillFromSlotIDs resolves explicit per-slot ids independently. A slot
// whose id fails resolution (absent, foreign-owned, or wrong kind) is
// treated as absent for this turn: one bad id degrades that slot, never
// the whole turn.
func (r *promptResolver) fillFromSlotIDs(ctx context.Context, rc *models.ResolutionContext, slotIDs map[models.ComponentKind]*uuid.UUID, userID string) error {
	var ids []uuid.UUID
	for _, kind := range models.Kinds {
		if id := slotIDs[kind]; id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := r.componentRepo.GetByIDs(ctx, ids, userID)
	if err != nil {
		return err
	}

	for _, kind := range models.Kinds {
		id := slotIDs[kind]
		if id == nil {
			continue
		}
		component, ok := found[*id]
		if !ok {
			r.logger.Warn("explicit slot id did not resolve, dropping slot",
				"kind", kind,
				"component_id", *id,
				"user_id", userID,
			)
			continue
		}
		if component.Kind != kind {
			r.logger.Warn("explicit slot id has mismatched kind, dropping slot",
				"kind", kind,
				"component_kind", component.Kind,
				"component_id", *id,
			)
			continue
		}
		rc.Fragments[kind] = component
		rc.UsedIDs = append(rc.UsedIDs, component.ID)
	}

	return nil
}
