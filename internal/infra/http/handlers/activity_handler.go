package handlers

import (
	"net/http"
	"strconv"

	"github.com/leadline-hq/crm-api/internal/usecase"
)

const (
	defaultActivityLimit = 40
	maxActivityLimit     = 100
)

type ActivityHandler struct {
	Activities usecase.ActivityRepository
}

func NewActivityHandler(activities usecase.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{Activities: activities}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	items, err := h.Activities.List(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load activity")
		return
	}

	respondJSON(w, http.StatusOK, items)
}
