package models

import "github.com/google/uuid"

// ResolutionContext is the ephemeral outcome of resolving one chat turn:
// the fragments to feed the compositor plus the identifiers of whatever
// was actually used, which the usage tracker needs after generation
// completes. It is never persisted.
type ResolutionContext struct {
	Fragments    map[ComponentKind]*Component
	UsedPresetID *uuid.UUID
	UsedIDs      []uuid.UUID
}

// IsEmpty reports whether no fragment resolved, meaning the caller's
// default system prompt stands.
func (rc *ResolutionContext) IsEmpty() bool {
	for _, kind := range Kinds {
		if rc.Fragments[kind] != nil {
			return false
		}
	}
	return true
}
