package models

import "github.com/google/uuid"

// OptionalSlotID tracks tri-state semantics for preset slot updates
// (RFC 7396 PATCH). This is transport-agnostic (no JSON tags) - the
// handler maps from its DTO representation.
//   - Present=false: slot absent from request (don't change)
//   - Present=true, Value=nil: slot is null (clear the reference)
//   - Present=true, Value=&id: point the slot at a component
type OptionalSlotID struct {
	Present bool
	Value   *uuid.UUID
}
