package handlers

import (
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
)

// ScraperUsageAPI expõe o consumo mensal do scraper (usado, limite, em USD).
type ScraperUsageAPI interface {
	MonthlyUsage() (used, limit float64, err error)
}

// CampaignPlanAPI expõe os detalhes do plano da plataforma de campanhas.
type CampaignPlanAPI interface {
	PlanDetails() (map[string]any, error)
}

type CreditsHandler struct {
	scraper  ScraperUsageAPI
	campaign CampaignPlanAPI
}

func NewCreditsHandler(scraper ScraperUsageAPI, campaign CampaignPlanAPI) *CreditsHandler {
	return &CreditsHandler{scraper: scraper, campaign: campaign}
}

type CreditsResponse struct {
	Scraper  map[string]any `json:"scraper"`
	Campaign map[string]any `json:"campaign"`
}

// Handle agrega o consumo de créditos dos provedores externos. Provedor fora
// do ar não derruba o painel: a falha vira um campo de erro.
func (h *CreditsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := CreditsResponse{
		Scraper:  map[string]any{"configured": h.scraper != nil},
		Campaign: map[string]any{"configured": h.campaign != nil},
	}

	if h.scraper != nil {
		used, limit, err := h.scraper.MonthlyUsage()
		if err != nil {
			middleware.RecordIntegrationError("apify")
			resp.Scraper["error"] = err.Error()
		} else {
			resp.Scraper["used_usd"] = used
			resp.Scraper["limit_usd"] = limit
			if limit > 0 {
				resp.Scraper["used_pct"] = fmt.Sprintf("%.1f", used/limit*100)
			}
		}
	}

	if h.campaign != nil {
		plan, err := h.campaign.PlanDetails()
		if err != nil {
			middleware.RecordIntegrationError("instantly")
			resp.Campaign["error"] = err.Error()
		} else {
			resp.Campaign["plan"] = plan
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
