package handlers

import (
	"net/http"

	"github.com/leadline-hq/crm-api/internal/usecase"
)

type ClientHandler struct {
	Clients usecase.ClientRepository
}

func NewClientHandler(clients usecase.ClientRepository) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Clients.List(r.Context(), maxListLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	respondJSON(w, http.StatusOK, clients)
}
