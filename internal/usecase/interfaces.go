package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apify"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apollo"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
)

// CampaignAPI é o contrato com a plataforma de campanhas (Instantly).
type CampaignAPI interface {
	ListCampaigns(limit, skip int) ([]instantly.CampaignItem, error)
	CreateCampaign(name string) (string, error)
	BulkAddLeads(campaignID string, leads []instantly.LeadInput) (int, []instantly.CreatedLead, error)
	GetLead(id string) (*instantly.LeadDetail, error)
	SearchLeadByEmail(email, campaignID string) (*instantly.LeadDetail, error)
	UpdateLead(id string, lead instantly.LeadInput) error
	DeleteLead(id string) error
}

// VerifierAPI classifica um e-mail; nunca devolve erro, só "unknown".
type VerifierAPI interface {
	VerifySingle(email string) entity.VerificationStatus
}

// LeadStore é o datastore de leads (tabela Airtable).
type LeadStore interface {
	ListLeads(ctx context.Context) ([]entity.Lead, error)
	BatchUpdateLeads(ctx context.Context, updates []entity.LeadUpdate) error
	BatchCreateLeads(ctx context.Context, records []map[string]any) error
	WritableFieldNames(ctx context.Context) (map[string]bool, error)
	ExistingContactKeys(ctx context.Context) (websites map[string]bool, phones map[string]bool, err error)
}

// ScraperAPI roda o scraper de mapas para uma zona.
type ScraperAPI interface {
	ScrapePlaces(query, zone string, maxPlaces int) ([]apify.Place, error)
}

// EnricherAPI busca o melhor contato de um domínio.
type EnricherAPI interface {
	EnrichDomain(domain string) (*apollo.EnrichedContact, error)
}

// ReportMailer entrega o relatório de um run para o operador.
type ReportMailer interface {
	Send(to, subject, body string) error
}
