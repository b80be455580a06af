package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadHandler struct {
	store usecase.LeadStore
}

func NewLeadHandler(store usecase.LeadStore) *LeadHandler {
	return &LeadHandler{store: store}
}

type PendingLeadsResponse struct {
	Total   int           `json:"total"`
	Pending int           `json:"pending"`
	Leads   []entity.Lead `json:"leads"`
}

// HandlePending lista os leads elegíveis para o próximo sync.
func (h *LeadHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to load leads from datastore"})
		return
	}

	pending := entity.FilterPending(leads)
	if pending == nil {
		pending = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, PendingLeadsResponse{
		Total:   len(leads),
		Pending: len(pending),
		Leads:   pending,
	})
}
