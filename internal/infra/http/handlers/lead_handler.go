package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leadline-hq/crm-api/internal/entity"
	"github.com/leadline-hq/crm-api/internal/infra/http/middleware"
	"github.com/leadline-hq/crm-api/internal/usecase"
)

// Hard cap on list responses.
const maxListLimit = 200

type LeadHandler struct {
	Lifecycle   *usecase.LeadLifecycle
	Leads       usecase.LeadRepository
	rateLimiter *RateLimiter
}

func NewLeadHandler(lifecycle *usecase.LeadLifecycle, leads usecase.LeadRepository) *LeadHandler {
	return &LeadHandler{
		Lifecycle:   lifecycle,
		Leads:       leads,
		rateLimiter: NewRateLimiter(30, time.Minute),
	}
}

type CreateLeadRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Business string `json:"business"`
	Message  string `json:"message"`
	Source   string `json:"source"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ConvertLeadResponse struct {
	OK               bool           `json:"ok"`
	Client           *entity.Client `json:"client"`
	AlreadyConverted bool           `json:"alreadyConverted,omitempty"`
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(clientIP(r)) {
		respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lead, err := h.Lifecycle.CreateLead(r.Context(), usecase.CreateLeadInput{
		Name:     req.Name,
		Email:    req.Email,
		Business: req.Business,
		Message:  req.Message,
		Source:   req.Source,
	})
	if err != nil {
		if errors.Is(err, entity.ErrMissingField) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	middleware.RecordLeadCreated()
	respondJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context(), maxListLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	respondJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lead, err := h.Lifecycle.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, entity.ErrLeadNotFound):
			respondError(w, http.StatusNotFound, "Lead not found")
		default:
			respondError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Lifecycle.DeleteLead(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			respondError(w, http.StatusNotFound, "Lead not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	out, err := h.Lifecycle.ConvertLead(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrLeadNotFound):
			respondError(w, http.StatusNotFound, "Lead not found")
		case errors.Is(err, entity.ErrDuplicateConversion):
			// Race lost and the winning client was not readable either.
			respondError(w, http.StatusConflict, "This lead was already converted.")
		default:
			respondError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	if out.AlreadyConverted {
		respondJSON(w, http.StatusOK, ConvertLeadResponse{
			OK:               true,
			Client:           out.Client,
			AlreadyConverted: true,
		})
		return
	}

	middleware.RecordLeadConverted()
	respondJSON(w, http.StatusCreated, ConvertLeadResponse{OK: true, Client: out.Client})
}
