package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
)

// TestCreatePreset verifies referenced components get a usage increment
// in the same operation that inserts the preset
func TestCreatePreset(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	mode := seedComponent(t, env.componentRepo, "user-1", models.KindMode)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Quick Expert",
		Slots: map[models.ComponentKind]*uuid.UUID{
			models.KindRole: &role.ID,
			models.KindMode: &mode.ID,
		},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	if preset.StyleID != nil || preset.ContextID != nil {
		t.Error("unset slots must stay empty")
	}
	if preset.UsageCount != 0 {
		t.Errorf("expected preset usage count 0, got %d", preset.UsageCount)
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
}

// TestCreatePreset_Empty verifies a preset with no slots is rejected and
// nothing persists
func TestCreatePreset_Empty(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Empty",
		Slots:  map[models.ComponentKind]*uuid.UUID{},
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if msg := validationErr.Fields["slots"]; !strings.Contains(msg, "at least one component") {
		t.Errorf("expected at-least-one-component message, got %q", msg)
	}

	presets, err := env.presets.ListPresets(ctx, "user-1", models.PresetSortName)
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("expected no persisted presets, got %d", len(presets))
	}
}

// TestUpdatePreset_CannotEmptyAllSlots verifies I1 is evaluated on the
// resulting state: clearing the last slot is rejected and the stored
// preset is unchanged
func TestUpdatePreset_CannotEmptyAllSlots(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Solo",
		Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &role.ID},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	_, err = env.presets.UpdatePreset(ctx, preset.ID, "user-1", &services.UpdatePresetRequest{
		Role: models.OptionalSlotID{Present: true, Value: nil},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, err := env.presetRepo.GetByID(ctx, preset.ID, "user-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.RoleID == nil || *stored.RoleID != role.ID {
		t.Error("rejected update must leave the stored preset unchanged")
	}
}

// TestUpdatePreset_SwapSlot verifies re-pointing a slot to a component
// of the matching kind
func TestUpdatePreset_SwapSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	first := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	second := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Swappable",
		Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &first.ID},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	updated, err := env.presets.UpdatePreset(ctx, preset.ID, "user-1", &services.UpdatePresetRequest{
		Role: models.OptionalSlotID{Present: true, Value: &second.ID},
	})
	if err != nil {
		t.Fatalf("UpdatePreset failed: %v", err)
	}
	if updated.RoleID == nil || *updated.RoleID != second.ID {
		t.Errorf("expected role slot re-pointed to %s", second.ID)
	}
}

// TestUpdatePreset_WrongKindRejected verifies I2 on update
func TestUpdatePreset_WrongKindRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)
	style := seedComponent(t, env.componentRepo, "user-1", models.KindStyle)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Strict",
		Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &role.ID},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	_, err = env.presets.UpdatePreset(ctx, preset.ID, "user-1", &services.UpdatePresetRequest{
		Role: models.OptionalSlotID{Present: true, Value: &style.ID},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for kind mismatch, got %v", err)
	}
}

// TestGetPreset_ResolvedSlots verifies empty slots are reported as
// explicitly empty and filled slots carry the component data
func TestGetPreset_ResolvedSlots(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Sparse",
		Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &role.ID},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	detail, err := env.presets.GetPreset(ctx, preset.ID, "user-1")
	if err != nil {
		t.Fatalf("GetPreset failed: %v", err)
	}

	if len(detail.Slots) != 4 {
		t.Fatalf("expected all four slots reported, got %d", len(detail.Slots))
	}

	roleSlot := detail.Slots[models.KindRole]
	if roleSlot.Empty() {
		t.Fatal("role slot must not be empty")
	}
	if roleSlot.Component == nil || roleSlot.Component.ID != role.ID {
		t.Error("role slot must carry the resolved component")
	}

	for _, kind := range []models.ComponentKind{models.KindStyle, models.KindContext, models.KindMode} {
		slot := detail.Slots[kind]
		if !slot.Empty() {
			t.Errorf("%s slot should be empty", kind)
		}
		if slot.Component != nil {
			t.Errorf("%s slot should carry no component", kind)
		}
	}
}

// TestDeletePreset verifies deletion has no effect on components
func TestDeletePreset(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
		UserID: "user-1",
		Name:   "Disposable",
		Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &role.ID},
	})
	if err != nil {
		t.Fatalf("CreatePreset failed: %v", err)
	}

	if err := env.presets.DeletePreset(ctx, preset.ID, "user-1"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}

	if _, err := env.presets.GetPreset(ctx, preset.ID, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected preset gone, got %v", err)
	}
	if _, err := env.componentRepo.GetByID(ctx, role.ID, "user-1"); err != nil {
		t.Errorf("component must survive preset deletion: %v", err)
	}
}

// TestListPresets_SortByUsage verifies the usage sort order
func TestListPresets_SortByUsage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	role := seedComponent(t, env.componentRepo, "user-1", models.KindRole)

	var ids []uuid.UUID
	for _, name := range []string{"a", "b"} {
		preset, err := env.presets.CreatePreset(ctx, &services.CreatePresetRequest{
			UserID: "user-1",
			Name:   name,
			Slots:  map[models.ComponentKind]*uuid.UUID{models.KindRole: &role.ID},
		})
		if err != nil {
			t.Fatalf("CreatePreset failed: %v", err)
		}
		ids = append(ids, preset.ID)
	}

	// Bump the second preset so it sorts first by usage
	if err := env.presetRepo.IncrementUsage(ctx, ids[1], "user-1", time.Now()); err != nil {
		t.Fatalf("IncrementUsage failed: %v", err)
	}

	presets, err := env.presets.ListPresets(ctx, "user-1", models.PresetSortUsage)
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(presets) != 2 || presets[0].ID != ids[1] {
		t.Error("expected the more-used preset first")
	}
}
