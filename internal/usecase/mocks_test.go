package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apify"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apollo"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
)

type mockCampaignAPI struct{ mock.Mock }

func (m *mockCampaignAPI) ListCampaigns(limit, skip int) ([]instantly.CampaignItem, error) {
	args := m.Called(limit, skip)
	var items []instantly.CampaignItem
	if v := args.Get(0); v != nil {
		items = v.([]instantly.CampaignItem)
	}
	return items, args.Error(1)
}

func (m *mockCampaignAPI) CreateCampaign(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *mockCampaignAPI) BulkAddLeads(campaignID string, leads []instantly.LeadInput) (int, []instantly.CreatedLead, error) {
	args := m.Called(campaignID, leads)
	var created []instantly.CreatedLead
	if v := args.Get(1); v != nil {
		created = v.([]instantly.CreatedLead)
	}
	return args.Int(0), created, args.Error(2)
}

func (m *mockCampaignAPI) GetLead(id string) (*instantly.LeadDetail, error) {
	args := m.Called(id)
	var detail *instantly.LeadDetail
	if v := args.Get(0); v != nil {
		detail = v.(*instantly.LeadDetail)
	}
	return detail, args.Error(1)
}

func (m *mockCampaignAPI) SearchLeadByEmail(email, campaignID string) (*instantly.LeadDetail, error) {
	args := m.Called(email, campaignID)
	var detail *instantly.LeadDetail
	if v := args.Get(0); v != nil {
		detail = v.(*instantly.LeadDetail)
	}
	return detail, args.Error(1)
}

func (m *mockCampaignAPI) UpdateLead(id string, lead instantly.LeadInput) error {
	return m.Called(id, lead).Error(0)
}

func (m *mockCampaignAPI) DeleteLead(id string) error {
	return m.Called(id).Error(0)
}

type mockVerifierAPI struct{ mock.Mock }

func (m *mockVerifierAPI) VerifySingle(email string) entity.VerificationStatus {
	return m.Called(email).Get(0).(entity.VerificationStatus)
}

type mockLeadStore struct{ mock.Mock }

func (m *mockLeadStore) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	var leads []entity.Lead
	if v := args.Get(0); v != nil {
		leads = v.([]entity.Lead)
	}
	return leads, args.Error(1)
}

func (m *mockLeadStore) BatchUpdateLeads(ctx context.Context, updates []entity.LeadUpdate) error {
	return m.Called(ctx, updates).Error(0)
}

func (m *mockLeadStore) BatchCreateLeads(ctx context.Context, records []map[string]any) error {
	return m.Called(ctx, records).Error(0)
}

func (m *mockLeadStore) WritableFieldNames(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	var fields map[string]bool
	if v := args.Get(0); v != nil {
		fields = v.(map[string]bool)
	}
	return fields, args.Error(1)
}

func (m *mockLeadStore) ExistingContactKeys(ctx context.Context) (map[string]bool, map[string]bool, error) {
	args := m.Called(ctx)
	var websites, phones map[string]bool
	if v := args.Get(0); v != nil {
		websites = v.(map[string]bool)
	}
	if v := args.Get(1); v != nil {
		phones = v.(map[string]bool)
	}
	return websites, phones, args.Error(2)
}

type mockScraperAPI struct{ mock.Mock }

func (m *mockScraperAPI) ScrapePlaces(query, zone string, maxPlaces int) ([]apify.Place, error) {
	args := m.Called(query, zone, maxPlaces)
	var places []apify.Place
	if v := args.Get(0); v != nil {
		places = v.([]apify.Place)
	}
	return places, args.Error(1)
}

type mockEnricherAPI struct{ mock.Mock }

func (m *mockEnricherAPI) EnrichDomain(domain string) (*apollo.EnrichedContact, error) {
	args := m.Called(domain)
	var contact *apollo.EnrichedContact
	if v := args.Get(0); v != nil {
		contact = v.(*apollo.EnrichedContact)
	}
	return contact, args.Error(1)
}
