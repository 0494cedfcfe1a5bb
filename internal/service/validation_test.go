package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

func seedComponent(t *testing.T, repo *fakeComponentRepo, userID string, kind models.ComponentKind) *models.Component {
	t.Helper()
	component := &models.Component{
		UserID:    userID,
		Kind:      kind,
		Name:      string(kind) + " fragment",
		Content:   "content for " + string(kind),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.Create(context.Background(), component); err != nil {
		t.Fatalf("seed component: %v", err)
	}
	return component
}

// TestValidateComponent_AggregatesFieldErrors verifies the report lists
// every offending field instead of stopping at the first
func TestValidateComponent_AggregatesFieldErrors(t *testing.T) {
	validator := NewValidator(newFakeComponentRepo())

	err := validator.ValidateComponent(&models.Component{
		UserID:  "user-1",
		Kind:    models.ComponentKind("persona"),
		Name:    "",
		Content: strings.Repeat("x", 5001),
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation) to hold")
	}

	for _, field := range []string{"kind", "name", "content"} {
		if _, ok := validationErr.Fields[field]; !ok {
			t.Errorf("expected field %q in report, got %v", field, validationErr.Fields)
		}
	}
}

// TestValidateComponent_Valid verifies a well-shaped component passes
func TestValidateComponent_Valid(t *testing.T) {
	validator := NewValidator(newFakeComponentRepo())

	err := validator.ValidateComponent(&models.Component{
		UserID:      "user-1",
		Kind:        models.KindRole,
		Name:        "Marketing Expert",
		Content:     "You are a marketing expert.",
		Description: "Persona for campaign work",
		Tags:        []string{"marketing", "persona"},
	})
	if err != nil {
		t.Fatalf("expected valid component, got %v", err)
	}
}

// TestValidatePreset_RequiresOneSlot verifies I1: all-empty slots are rejected
func TestValidatePreset_RequiresOneSlot(t *testing.T) {
	validator := NewValidator(newFakeComponentRepo())

	err := validator.ValidatePreset(context.Background(), &models.Preset{
		UserID: "user-1",
		Name:   "Empty",
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
}

// TestValidatePreset_KindMismatch verifies I2: a slot must reference a
// component of its own kind
func TestValidatePreset_KindMismatch(t *testing.T) {
	repo := newFakeComponentRepo()
	validator := NewValidator(repo)
	styleComponent := seedComponent(t, repo, "user-1", models.KindStyle)

	err := validator.ValidatePreset(context.Background(), &models.Preset{
		UserID: "user-1",
		Name:   "Mismatched",
		RoleID: &styleComponent.ID,
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if _, ok := validationErr.Fields["role_id"]; !ok {
		t.Errorf("expected role_id in report, got %v", validationErr.Fields)
	}
}

// TestValidatePreset_ForeignComponent verifies I2 ownership: another
// user's component reads as not found, leaking nothing
func TestValidatePreset_ForeignComponent(t *testing.T) {
	repo := newFakeComponentRepo()
	validator := NewValidator(repo)
	foreign := seedComponent(t, repo, "user-2", models.KindRole)

	err := validator.ValidatePreset(context.Background(), &models.Preset{
		UserID: "user-1",
		Name:   "Borrowed",
		RoleID: &foreign.ID,
	})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if msg := validationErr.Fields["role_id"]; !strings.Contains(msg, "not found") {
		t.Errorf("expected not-found message for foreign component, got %q", msg)
	}
}

// TestValidatePreset_Valid verifies a preset with one good slot passes
func TestValidatePreset_Valid(t *testing.T) {
	repo := newFakeComponentRepo()
	validator := NewValidator(repo)
	role := seedComponent(t, repo, "user-1", models.KindRole)

	err := validator.ValidatePreset(context.Background(), &models.Preset{
		UserID: "user-1",
		Name:   "Quick Expert",
		RoleID: &role.ID,
	})
	if err != nil {
		t.Fatalf("expected valid preset, got %v", err)
	}
}
