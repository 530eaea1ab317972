package handlers

import (
	"net/http"

	"github.com/leadline-hq/crm-api/internal/usecase"
)

type StatsHandler struct {
	Stats *usecase.StatsReader
}

func NewStatsHandler(stats *usecase.StatsReader) *StatsHandler {
	return &StatsHandler{Stats: stats}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
