package models

import (
	"time"

	"github.com/google/uuid"
)

// Preset is a named, owner-scoped combination of component references.
// Each slot is a weak reference: it records the relation only, and is
// cleared automatically when the referenced component is deleted. At all
// times after create/update at least one slot is non-empty.
type Preset struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	RoleID      *uuid.UUID `json:"role_id" db:"role_id"`
	StyleID     *uuid.UUID `json:"style_id" db:"style_id"`
	ContextID   *uuid.UUID `json:"context_id" db:"context_id"`
	ModeID      *uuid.UUID `json:"mode_id" db:"mode_id"`
	UsageCount  int64      `json:"usage_count" db:"usage_count"`
	LastUsedAt  *time.Time `json:"last_used_at" db:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// SlotID returns the component id held by the slot for the given kind,
// or nil when the slot is empty.
func (p *Preset) SlotID(kind ComponentKind) *uuid.UUID {
	switch kind {
	case KindRole:
		return p.RoleID
	case KindStyle:
		return p.StyleID
	case KindContext:
		return p.ContextID
	case KindMode:
		return p.ModeID
	}
	return nil
}

// SetSlotID sets the slot for the given kind. A nil id clears the slot.
func (p *Preset) SetSlotID(kind ComponentKind, id *uuid.UUID) {
	switch kind {
	case KindRole:
		p.RoleID = id
	case KindStyle:
		p.StyleID = id
	case KindContext:
		p.ContextID = id
	case KindMode:
		p.ModeID = id
	}
}

// SlotIDs returns the ids of every non-empty slot, in section order.
func (p *Preset) SlotIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, kind := range Kinds {
		if id := p.SlotID(kind); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// HasAnySlot reports whether at least one slot is non-empty.
func (p *Preset) HasAnySlot() bool {
	return p.RoleID != nil || p.StyleID != nil || p.ContextID != nil || p.ModeID != nil
}

// ResolvedSlot is one slot of a preset with its referenced component
// attached. The two pointers distinguish three states:
//   - ComponentID nil: slot empty
//   - ComponentID set, Component set: resolved normally
//   - ComponentID set, Component nil: referenced but failed to load
//
// The third state should not occur given the slot invariants, but the
// contract must not silently coerce it into "empty".
type ResolvedSlot struct {
	ComponentID *uuid.UUID `json:"component_id"`
	Component   *Component `json:"component"`
}

// Empty reports whether the slot holds no reference at all.
func (s ResolvedSlot) Empty() bool {
	return s.ComponentID == nil
}

// PresetDetail is a preset with all four slots resolved to their current
// component data, as returned by get-by-id.
type PresetDetail struct {
	Preset
	Slots map[ComponentKind]ResolvedSlot `json:"slots"`
}

// PresetSort selects the ordering for preset listings.
type PresetSort string

const (
	PresetSortUsage  PresetSort = "usage"  // most used first
	PresetSortRecent PresetSort = "recent" // most recently used first
	PresetSortName   PresetSort = "name"   // alphabetical
)

// IsValid reports whether s is a known sort order.
func (s PresetSort) IsValid() bool {
	switch s {
	case PresetSortUsage, PresetSortRecent, PresetSortName:
		return true
	}
	return false
}
