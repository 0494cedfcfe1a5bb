package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
)

type usageEnv struct {
	componentRepo *fakeComponentRepo
	presetRepo    *fakePresetRepo
	tracker       services.UsageTracker
}

func newUsageEnv() *usageEnv {
	componentRepo := newFakeComponentRepo()
	presetRepo := newFakePresetRepo()
	txManager := &fakeTxManager{componentRepo: componentRepo, presetRepo: presetRepo}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return &usageEnv{
		componentRepo: componentRepo,
		presetRepo:    presetRepo,
		tracker:       NewUsageTracker(componentRepo, presetRepo, txManager, logger),
	}
}

// TestRecordUsage verifies component and preset counters move together
// and the preset picks up the completion time
func TestRecordUsage(t *testing.T) {
	env := newUsageEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	mode := seedComponent(t, env.componentRepo, "user-1", models.KindMode)
	preset := seedPreset(t, env.presetRepo, "user-1", map[models.ComponentKind]*uuid.UUID{
		models.KindRole: &role.ID,
		models.KindMode: &mode.ID,
	})

	completedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	err := env.tracker.RecordUsage(ctx, &services.RecordUsageRequest{
		UserID:       "user-1",
		ComponentIDs: []uuid.UUID{role.ID, mode.ID},
		PresetID:     &preset.ID,
		CompletedAt:  completedAt,
	})
	if err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	for _, id := range []uuid.UUID{role.ID, mode.ID} {
		component, err := env.componentRepo.GetByID(ctx, id, "user-1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if component.UsageCount != 1 {
			t.Errorf("component %s: expected usage count 1, got %d", id, component.UsageCount)
		}
	}

	stored, err := env.presetRepo.GetByID(ctx, preset.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.UsageCount != 1 {
		t.Errorf("expected preset usage count 1, got %d", stored.UsageCount)
	}
	if stored.LastUsedAt == nil || !stored.LastUsedAt.Equal(completedAt) {
		t.Errorf("expected last used at %v, got %v", completedAt, stored.LastUsedAt)
	}
}

// TestRecordUsage_RepeatedTurns verifies K turns with the same fragment
// add exactly K
func TestRecordUsage_RepeatedTurns(t *testing.T) {
	env := newUsageEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	for i := 0; i < 3; i++ {
		err := env.tracker.RecordUsage(ctx, &services.RecordUsageRequest{
			UserID:       "user-1",
			ComponentIDs: []uuid.UUID{role.ID},
		})
		if err != nil {
			t.Fatalf("RecordUsage failed on turn %d: %v", i, err)
		}
	}

	component, err := env.componentRepo.GetByID(ctx, role.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if component.UsageCount != 3 {
		t.Errorf("expected usage count 3, got %d", component.UsageCount)
	}
}

// TestRecordUsage_LaterTimestampWins verifies last_used_at never moves
// backwards when completions land out of order
func TestRecordUsage_LaterTimestampWins(t *testing.T) {
	env := newUsageEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	preset := seedPreset(t, env.presetRepo, "user-1", map[models.ComponentKind]*uuid.UUID{
		models.KindRole: &role.ID,
	})

	later := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)
	for _, completedAt := range []time.Time{later, earlier} {
		err := env.tracker.RecordUsage(ctx, &services.RecordUsageRequest{
			UserID:      "user-1",
			PresetID:    &preset.ID,
			CompletedAt: completedAt,
		})
		if err != nil {
			t.Fatalf("RecordUsage failed: %v", err)
		}
	}

	stored, err := env.presetRepo.GetByID(ctx, preset.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.UsageCount != 2 {
		t.Errorf("expected usage count 2, got %d", stored.UsageCount)
	}
	if stored.LastUsedAt == nil || !stored.LastUsedAt.Equal(later) {
		t.Errorf("expected last used at to stay %v, got %v", later, stored.LastUsedAt)
	}
}

// TestRecordUsage_RollbackOnFailure verifies a failed preset increment
// leaves no partial component counts behind
func TestRecordUsage_RollbackOnFailure(t *testing.T) {
	env := newUsageEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	missing := uuid.New()

	err := env.tracker.RecordUsage(ctx, &services.RecordUsageRequest{
		UserID:       "user-1",
		ComponentIDs: []uuid.UUID{role.ID},
		PresetID:     &missing,
	})
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	component, err := env.componentRepo.GetByID(ctx, role.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if component.UsageCount != 0 {
		t.Errorf("expected rollback to keep usage count 0, got %d", component.UsageCount)
	}
}

// TestRecordUsage_UnknownComponent verifies a stale component id fails
// the whole batch
func TestRecordUsage_UnknownComponent(t *testing.T) {
	env := newUsageEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	err := env.tracker.RecordUsage(ctx, &services.RecordUsageRequest{
		UserID:       "user-1",
		ComponentIDs: []uuid.UUID{role.ID, uuid.New()},
	})
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	component, err := env.componentRepo.GetByID(ctx, role.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if component.UsageCount != 0 {
		t.Errorf("expected no partial increment, got %d", component.UsageCount)
	}
}

// TestRecordUsage_EmptyTurn verifies a default-prompt turn is a no-op
func TestRecordUsage_EmptyTurn(t *testing.T) {
	env := newUsageEnv()

	err := env.tracker.RecordUsage(context.Background(), &services.RecordUsageRequest{
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

// TestRecordUsage_MissingUser verifies the caller identity is required
func TestRecordUsage_MissingUser(t *testing.T) {
	env := newUsageEnv()

	err := env.tracker.RecordUsage(context.Background(), &services.RecordUsageRequest{
		ComponentIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
