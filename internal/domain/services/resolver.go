package services

import (
	"context"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
)

// ResolveRequest describes one chat turn's prompt selection.
type ResolveRequest struct {
	UserID   string
	PresetID *uuid.UUID
	SlotIDs  map[models.ComponentKind]*uuid.UUID
}

// ResolveResult is what the chat-turn caller gets back: the rendered
// prompt (nil means "use the default system prompt") plus the identifiers
// actually used, to be echoed to the completion hook for usage tracking.
type ResolveResult struct {
	Prompt           *string
	UsedPresetID     *uuid.UUID
	UsedComponentIDs []uuid.UUID
}

// PromptResolver decides, per chat turn, which fragments apply and
// renders them. Precedence is strict:
//  1. an owned PresetID uses that preset's slots verbatim - explicit
//     slot ids in the same request are ignored entirely, never merged
//  2. otherwise explicit slot ids resolve independently; a slot whose id
//     fails to resolve is dropped for that turn (fail-open per slot)
//  3. otherwise no custom prompt applies
type PromptResolver interface {
	ResolveForChatTurn(ctx context.Context, req *ResolveRequest) (*ResolveResult, error)
}
