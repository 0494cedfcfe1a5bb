package handler

import (
	"log/slog"
	"net/http"

	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
	"promptdeck/internal/httputil"
)

// ComponentHandler handles component HTTP requests
type ComponentHandler struct {
	service services.ComponentService
	logger  *slog.Logger
}

// NewComponentHandler creates a new component handler
func NewComponentHandler(service services.ComponentService, logger *slog.Logger) *ComponentHandler {
	return &ComponentHandler{
		service: service,
		logger:  logger,
	}
}

// HealthCheck reports liveness
// GET /health
func (h *ComponentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListComponents retrieves the caller's components
// GET /api/components?kind=role
func (h *ComponentHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var kind *models.ComponentKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k := models.ComponentKind(raw)
		if !k.IsValid() {
			httputil.RespondError(w, http.StatusBadRequest, "unknown component kind")
			return
		}
		kind = &k
	}

	components, err := h.service.ListComponents(r.Context(), userID, kind)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, components)
}

// CreateComponent creates a new component
// POST /api/components
func (h *ComponentHandler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req CreateComponentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	component, err := h.service.CreateComponent(r.Context(), &services.CreateComponentRequest{
		UserID:      userID,
		Kind:        models.ComponentKind(req.Kind),
		Name:        req.Name,
		Content:     req.Content,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, component)
}

// GetComponent retrieves a component by ID
// GET /api/components/{id}
func (h *ComponentHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid component ID format")
		return
	}

	component, err := h.service.GetComponent(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, component)
}

// UpdateComponent applies a partial update
// PATCH /api/components/{id}
func (h *ComponentHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid component ID format")
		return
	}

	var req UpdateComponentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := &services.UpdateComponentRequest{
		Name:    req.Name,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Description.Present {
		// null clears the description
		value := ""
		if req.Description.Value != nil {
			value = *req.Description.Value
		}
		svcReq.Description = &value
	}

	component, err := h.service.UpdateComponent(r.Context(), id, userID, svcReq)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, component)
}

// DeleteComponent removes a component and clears referencing preset slots
// DELETE /api/components/{id}
func (h *ComponentHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id, err := pathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid component ID format")
		return
	}

	if err := h.service.DeleteComponent(r.Context(), id, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
