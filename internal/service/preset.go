package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
	"promptdeck/internal/domain/services"
)

// presetService implements the PresetService interface
type presetService struct {
	presetRepo    repositories.PresetRepository
	componentRepo repositories.ComponentRepository
	txManager     repositories.TransactionManager
	validator     *Validator
	logger        *slog.Logger
}

// NewPresetService creates a new preset service
func NewPresetService(
	presetRepo repositories.PresetRepository,
	componentRepo repositories.ComponentRepository,
	txManager repositories.TransactionManager,
	validator *Validator,
	logger *slog.Logger,
) services.PresetService {
	return &presetService{
		presetRepo:    presetRepo,
		componentRepo: componentRepo,
		txManager:     txManager,
		validator:     validator,
		logger:        logger,
	}
}

// CreatePreset validates slot references and persists the preset.
// Adding a component to a preset counts as a usage signal, so every
// referenced component's usage_count is incremented in the same
// transaction as the insert.
func (s *presetService) CreatePreset(ctx context.Context, req *services.CreatePresetRequest) (*models.Preset, error) {
	now := time.Now()
	preset := &models.Preset{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, kind := range models.Kinds {
		if id, ok := req.Slots[kind]; ok && id != nil {
			preset.SetSlotID(kind, id)
		}
	}

	if err := s.validator.ValidatePreset(ctx, preset); err != nil {
		return nil, err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.presetRepo.Create(txCtx, preset); err != nil {
			return err
		}
		return s.componentRepo.IncrementUsage(txCtx, preset.SlotIDs(), req.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("preset created",
		"id", preset.ID,
		"name", preset.Name,
		"slots", len(preset.SlotIDs()),
		"user_id", req.UserID,
	)

	return preset, nil
}

// GetPreset retrieves a preset with all four slots resolved.
// Each slot reports its reference and the loaded component separately so
// callers can tell an empty slot from a reference that failed to load.
func (s *presetService) GetPreset(ctx context.Context, id uuid.UUID, userID string) (*models.PresetDetail, error) {
	preset, err := s.presetRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	found, err := s.componentRepo.GetByIDs(ctx, preset.SlotIDs(), userID)
	if err != nil {
		return nil, err
	}

	detail := &models.PresetDetail{
		Preset: *preset,
		Slots:  make(map[models.ComponentKind]models.ResolvedSlot, len(models.Kinds)),
	}
	for _, kind := range models.Kinds {
		slotID := preset.SlotID(kind)
		slot := models.ResolvedSlot{ComponentID: slotID}
		if slotID != nil {
			if component, ok := found[*slotID]; ok {
				slot.Component = component
			} else {
				// Should not happen while slot invariants hold; surface
				// rather than coerce into "empty"
				s.logger.Warn("preset slot reference failed to load",
					"preset_id", preset.ID,
					"kind", kind,
					"component_id", *slotID,
				)
			}
		}
		detail.Slots[kind] = slot
	}

	return detail, nil
}

// ListPresets retrieves the owner's presets in the given sort order
func (s *presetService) ListPresets(ctx context.Context, userID string, sort models.PresetSort) ([]models.Preset, error) {
	return s.presetRepo.List(ctx, userID, sort)
}

// UpdatePreset applies a partial update and re-validates the resulting
// state. A rejected update leaves the stored preset untouched.
func (s *presetService) UpdatePreset(ctx context.Context, id uuid.UUID, userID string, req *services.UpdatePresetRequest) (*models.Preset, error) {
	preset, err := s.presetRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		preset.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		preset.Description = *req.Description
	}
	for _, kind := range models.Kinds {
		if patch := req.Slot(kind); patch.Present {
			preset.SetSlotID(kind, patch.Value)
		}
	}
	preset.UpdatedAt = time.Now()

	if err := s.validator.ValidatePreset(ctx, preset); err != nil {
		return nil, err
	}

	if err := s.presetRepo.Update(ctx, preset); err != nil {
		return nil, err
	}

	s.logger.Info("preset updated",
		"id", preset.ID,
		"user_id", userID,
	)

	return preset, nil
}

// DeletePreset removes the preset. No cascade: components and any
// already-rendered prompt text are unaffected.
func (s *presetService) DeletePreset(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.presetRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("preset deleted",
		"id", id,
		"user_id", userID,
	)

	return nil
}
