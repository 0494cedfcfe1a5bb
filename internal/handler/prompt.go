package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
	"promptdeck/internal/httputil"
)

// PromptHandler exposes chat-turn prompt resolution and the
// generation-completion usage hook
type PromptHandler struct {
	resolver services.PromptResolver
	tracker  services.UsageTracker
	logger   *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(resolver services.PromptResolver, tracker services.UsageTracker, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		resolver: resolver,
		tracker:  tracker,
		logger:   logger,
	}
}

// ResolvePrompt renders the effective prompt for one chat turn
// POST /api/prompts/resolve
func (h *PromptHandler) ResolvePrompt(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req ResolvePromptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	presetID, err := parseOptionalID("preset_id", req.PresetID)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slotIDs := make(map[models.ComponentKind]*uuid.UUID, len(models.Kinds))
	slotFields := []struct {
		kind  models.ComponentKind
		field string
		value *string
	}{
		{models.KindRole, "role_id", req.RoleID},
		{models.KindStyle, "style_id", req.StyleID},
		{models.KindContext, "context_id", req.ContextID},
		{models.KindMode, "mode_id", req.ModeID},
	}
	for _, slot := range slotFields {
		id, err := parseOptionalID(slot.field, slot.value)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slotIDs[slot.kind] = id
	}

	result, err := h.resolver.ResolveForChatTurn(r.Context(), &services.ResolveRequest{
		UserID:   userID,
		PresetID: presetID,
		SlotIDs:  slotIDs,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	usedIDs := result.UsedComponentIDs
	if usedIDs == nil {
		usedIDs = []uuid.UUID{}
	}

	httputil.RespondJSON(w, http.StatusOK, ResolvePromptResponse{
		Prompt:           result.Prompt,
		UsedPresetID:     result.UsedPresetID,
		UsedComponentIDs: usedIDs,
	})
}

// RecordUsage records utilization after a completed generation
// POST /api/prompts/usage
func (h *PromptHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req RecordUsageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	componentIDs := make([]uuid.UUID, 0, len(req.ComponentIDs))
	for _, raw := range req.ComponentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "component_ids: invalid id")
			return
		}
		componentIDs = append(componentIDs, id)
	}

	presetID, err := parseOptionalID("preset_id", req.PresetID)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var completedAt time.Time
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	err = h.tracker.RecordUsage(r.Context(), &services.RecordUsageRequest{
		UserID:       userID,
		ComponentIDs: componentIDs,
		PresetID:     presetID,
		CompletedAt:  completedAt,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
