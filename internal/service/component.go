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

// componentService implements the ComponentService interface
type componentService struct {
	componentRepo repositories.ComponentRepository
	presetRepo    repositories.PresetRepository
	txManager     repositories.TransactionManager
	validator     *Validator
	logger        *slog.Logger
}

// NewComponentService creates a new component service
func NewComponentService(
	componentRepo repositories.ComponentRepository,
	presetRepo repositories.PresetRepository,
	txManager repositories.TransactionManager,
	validator *Validator,
	logger *slog.Logger,
) services.ComponentService {
	return &componentService{
		componentRepo: componentRepo,
		presetRepo:    presetRepo,
		txManager:     txManager,
		validator:     validator,
		logger:        logger,
	}
}

// CreateComponent validates and persists a new component
func (s *componentService) CreateComponent(ctx context.Context, req *services.CreateComponentRequest) (*models.Component, error) {
	now := time.Now()
	component := &models.Component{
		UserID:      req.UserID,
		Kind:        req.Kind,
		Name:        strings.TrimSpace(req.Name),
		Content:     req.Content,
		Description: req.Description,
		Tags:        normalizeTags(req.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.validator.ValidateComponent(component); err != nil {
		return nil, err
	}

	if err := s.componentRepo.Create(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("component created",
		"id", component.ID,
		"kind", component.Kind,
		"name", component.Name,
		"user_id", component.UserID,
	)

	return component, nil
}

// GetComponent retrieves a component by ID
func (s *componentService) GetComponent(ctx context.Context, id uuid.UUID, userID string) (*models.Component, error) {
	return s.componentRepo.GetByID(ctx, id, userID)
}

// ListComponents retrieves the owner's components, optionally filtered by kind
func (s *componentService) ListComponents(ctx context.Context, userID string, kind *models.ComponentKind) ([]models.Component, error) {
	return s.componentRepo.List(ctx, userID, kind)
}

// UpdateComponent applies a partial update. The resulting component is
// validated as a whole before anything is written. Kind never changes.
func (s *componentService) UpdateComponent(ctx context.Context, id uuid.UUID, userID string, req *services.UpdateComponentRequest) (*models.Component, error) {
	component, err := s.componentRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		component.Name = strings.TrimSpace(*req.Name)
	}
	if req.Content != nil {
		component.Content = *req.Content
	}
	if req.Description != nil {
		component.Description = *req.Description
	}
	if req.Tags != nil {
		component.Tags = normalizeTags(*req.Tags)
	}
	component.UpdatedAt = time.Now()

	if err := s.validator.ValidateComponent(component); err != nil {
		return nil, err
	}

	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("component updated",
		"id", component.ID,
		"user_id", userID,
	)

	return component, nil
}

// DeleteComponent removes the component and clears every preset slot of
// the same owner that referenced it. Both effects commit in one
// transaction: the fan-out either fully applies or not at all.
func (s *componentService) DeleteComponent(ctx context.Context, id uuid.UUID, userID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.componentRepo.Delete(txCtx, id, userID); err != nil {
			return err
		}
		return s.presetRepo.ClearSlotReferences(txCtx, id, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("component deleted",
		"id", id,
		"user_id", userID,
	)

	return nil
}

// normalizeTags trims tags and drops empties and duplicates, preserving
// first-seen order. Tag order carries no meaning for callers.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
