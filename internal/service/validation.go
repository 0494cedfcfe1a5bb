package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"promptdeck/internal/config"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
)

// Validator is the shared predicate pipeline used by both stores. It
// evaluates candidate state after a change has been applied (the
// post-image, never the diff) and aggregates every field problem into a
// single report instead of short-circuiting on the first one.
//
// Cross-entity slot checks need to look up referenced components, so the
// validator is parameterized by a lookup capability rather than a store.
type Validator struct {
	lookup services.ComponentLookup
}

// NewValidator creates a validator backed by the given component lookup
func NewValidator(lookup services.ComponentLookup) *Validator {
	return &Validator{lookup: lookup}
}

// ValidateComponent checks a candidate component's field shape.
// Returns *domain.ValidationError listing every offending field.
func (v *Validator) ValidateComponent(component *models.Component) error {
	err := validation.ValidateStruct(component,
		validation.Field(&component.UserID, validation.Required),
		validation.Field(&component.Kind,
			validation.Required,
			validation.By(validateKind),
		),
		validation.Field(&component.Name,
			validation.Required,
			validation.Length(1, config.MaxComponentNameLength),
		),
		validation.Field(&component.Content,
			validation.Required,
			validation.Length(1, config.MaxComponentContentLength),
		),
		validation.Field(&component.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
		validation.Field(&component.Tags,
			validation.Length(0, config.MaxTagsPerComponent),
			validation.Each(validation.Required, validation.Length(1, config.MaxTagLength)),
		),
	)
	return asValidationError(err)
}

// ValidatePreset checks a candidate preset: field shape, the
// at-least-one-slot rule, and every non-empty slot's reference
// (existence, ownership, kind match). Because it runs on the resulting
// state, a partial update that would zero out all slots is rejected even
// when no single field is individually invalid.
func (v *Validator) ValidatePreset(ctx context.Context, preset *models.Preset) error {
	fields := map[string]string{}

	structErr := validation.ValidateStruct(preset,
		validation.Field(&preset.UserID, validation.Required),
		validation.Field(&preset.Name,
			validation.Required,
			validation.Length(1, config.MaxPresetNameLength),
		),
		validation.Field(&preset.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
	)
	if structErr != nil {
		errs, ok := structErr.(validation.Errors)
		if !ok {
			return structErr
		}
		for name, ferr := range errs {
			fields[name] = ferr.Error()
		}
	}

	if !preset.HasAnySlot() {
		fields["slots"] = "at least one component required"
	} else if err := v.validateSlotReferences(ctx, preset, fields); err != nil {
		return err
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// validateSlotReferences checks each non-empty slot against the lookup.
// A missing component and a foreign-owned component produce the same
// message so nothing leaks about other owners' data.
func (v *Validator) validateSlotReferences(ctx context.Context, preset *models.Preset, fields map[string]string) error {
	found, err := v.lookup.GetByIDs(ctx, preset.SlotIDs(), preset.UserID)
	if err != nil {
		return fmt.Errorf("resolve slot references: %w", err)
	}

	for _, kind := range models.Kinds {
		id := preset.SlotID(kind)
		if id == nil {
			continue
		}

		fieldName := string(kind) + "_id"
		component, ok := found[*id]
		if !ok {
			fields[fieldName] = "component not found"
			continue
		}
		if component.Kind != kind {
			fields[fieldName] = fmt.Sprintf("component has kind %q, slot requires %q", component.Kind, kind)
		}
	}

	return nil
}

// validateKind is an ozzo rule checking kind enum membership
func validateKind(value interface{}) error {
	kind, ok := value.(models.ComponentKind)
	if !ok {
		return fmt.Errorf("must be a component kind")
	}
	if !kind.IsValid() {
		return fmt.Errorf("must be one of role, style, context, mode")
	}
	return nil
}

// asValidationError flattens an ozzo error map into the domain's
// aggregated ValidationError. Non-validation errors pass through.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(errs))
	for name, ferr := range errs {
		fields[name] = ferr.Error()
	}
	return &domain.ValidationError{Fields: fields}
}
