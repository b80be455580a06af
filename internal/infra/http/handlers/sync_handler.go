package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type SyncHandler struct {
	store    usecase.LeadStore
	syncUC   *usecase.SyncPendingLeadsUseCase
	mailer   usecase.ReportMailer
	reportTo string
}

func NewSyncHandler(store usecase.LeadStore, syncUC *usecase.SyncPendingLeadsUseCase, mailer usecase.ReportMailer, reportTo string) *SyncHandler {
	return &SyncHandler{
		store:    store,
		syncUC:   syncUC,
		mailer:   mailer,
		reportTo: reportTo,
	}
}

type SyncRequest struct {
	MaxRecords int `json:"max_records,omitempty"`
}

type SyncResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Report  *usecase.SyncReport `json:"report,omitempty"`
}

// Handle dispara um run de sincronização completo e responde com o relatório.
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SyncRequest
	if r.Body != nil {
		// Corpo vazio é válido: usa os defaults.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	leads, err := h.store.ListLeads(ctx)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, SyncResponse{Success: false, Message: "Failed to load leads from datastore"})
		return
	}
	pending := entity.FilterPending(leads)

	report, err := h.syncUC.Execute(ctx, pending, req.MaxRecords)
	if report != nil {
		for op, n := range report.ByOperation {
			for i := 0; i < n; i++ {
				middleware.RecordLeadSync(string(op), "success")
			}
		}
		for category, n := range report.FailureCategories {
			for i := 0; i < n; i++ {
				middleware.RecordSyncFailure(category)
			}
		}
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, SyncResponse{Success: false, Message: err.Error(), Report: report})
		return
	}

	if h.mailer != nil && h.reportTo != "" {
		if mailErr := h.mailer.Send(h.reportTo, "Relatório de sync de leads", report.Summary()); mailErr != nil {
			log.Printf("⚠️ Falha enviando relatório de sync: %v", mailErr)
		}
	}

	writeJSON(w, http.StatusOK, SyncResponse{Success: true, Report: report})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
