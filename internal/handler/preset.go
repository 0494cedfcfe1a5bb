package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
	"promptdeck/internal/httputil"
)

// PresetHandler handles preset HTTP requests
type PresetHandler struct {
	service services.PresetService
	logger  *slog.Logger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(service services.PresetService, logger *slog.Logger) *PresetHandler {
	return &PresetHandler{
		service: service,
		logger:  logger,
	}
}

// ListPresets retrieves the caller's presets
// GET /api/presets?sort=usage|recent|name
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	sort := models.PresetSortName
	if raw := r.URL.Query().Get("sort"); raw != "" {
		s := models.PresetSort(raw)
		if !s.IsValid() {
			httputil.RespondError(w, http.StatusBadRequest, "unknown sort order")
			return
		}
		sort = s
	}

	presets, err := h.service.ListPresets(r.Context(), userID, sort)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presets)
}

// CreatePreset creates a new preset
// POST /api/presets
func (h *PresetHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req CreatePresetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slots := make(map[models.ComponentKind]*uuid.UUID, len(models.Kinds))
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
		slots[slot.kind] = id
	}

	preset, err := h.service.CreatePreset(r.Context(), &services.CreatePresetRequest{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Slots:       slots,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, preset)
}

// GetPreset retrieves a preset with resolved slot contents
// GET /api/presets/{id}
func (h *PresetHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid preset ID format")
		return
	}

	preset, err := h.service.GetPreset(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, preset)
}

// UpdatePreset applies a partial update
// PATCH /api/presets/{id}
func (h *PresetHandler) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid preset ID format")
		return
	}

	var req UpdatePresetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := &services.UpdatePresetRequest{Name: req.Name}
	if req.Description.Present {
		value := ""
		if req.Description.Value != nil {
			value = *req.Description.Value
		}
		svcReq.Description = &value
	}

	slotFields := []struct {
		field string
		value httputil.OptionalString
		dest  *models.OptionalSlotID
	}{
		{"role_id", req.RoleID, &svcReq.Role},
		{"style_id", req.StyleID, &svcReq.Style},
		{"context_id", req.ContextID, &svcReq.Context},
		{"mode_id", req.ModeID, &svcReq.Mode},
	}
	for _, slot := range slotFields {
		patch, err := parseSlotPatch(slot.field, slot.value)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		*slot.dest = patch
	}

	preset, err := h.service.UpdatePreset(r.Context(), id, userID, svcReq)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, preset)
}

// DeletePreset removes a preset
// DELETE /api/presets/{id}
func (h *PresetHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid preset ID format")
		return
	}

	if err := h.service.DeletePreset(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
