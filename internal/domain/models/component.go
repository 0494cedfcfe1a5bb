package models

import (
	"time"

	"github.com/google/uuid"
)

// ComponentKind identifies which of the four prompt sections a component
// fills. The kind is fixed at creation and never changes.
type ComponentKind string

const (
	KindRole    ComponentKind = "role"
	KindStyle   ComponentKind = "style"
	KindContext ComponentKind = "context"
	KindMode    ComponentKind = "mode"
)

// Kinds lists all component kinds in prompt section order.
// This order is a design contract: role frames identity, style refines
// tone, context supplies facts, mode governs behavior. Reordering is a
// behavioral regression.
var Kinds = []ComponentKind{KindRole, KindStyle, KindContext, KindMode}

// IsValid reports whether k is one of the four known kinds.
func (k ComponentKind) IsValid() bool {
	switch k {
	case KindRole, KindStyle, KindContext, KindMode:
		return true
	}
	return false
}

// Component is a single reusable prompt fragment owned by one user.
type Component struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	UserID      string        `json:"user_id" db:"user_id"`
	Kind        ComponentKind `json:"kind" db:"kind"`
	Name        string        `json:"name" db:"name"`
	Content     string        `json:"content" db:"content"`
	Description string        `json:"description" db:"description"`
	Tags        []string      `json:"tags" db:"tags"`
	UsageCount  int64         `json:"usage_count" db:"usage_count"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
