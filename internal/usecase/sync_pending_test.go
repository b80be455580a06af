package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newSyncUC(api *mockCampaignAPI, store *mockLeadStore) *SyncPendingLeadsUseCase {
	return &SyncPendingLeadsUseCase{
		API:       api,
		Store:     store,
		Directory: NewCampaignDirectory(api),
		Workers:   1,
		Now:       func() time.Time { return fixedNow },
	}
}

func capturedUpdates(store *mockLeadStore) map[string]map[string]any {
	byID := map[string]map[string]any{}
	for _, call := range store.Calls {
		if call.Method != "BatchUpdateLeads" {
			continue
		}
		for _, u := range call.Arguments.Get(1).([]entity.LeadUpdate) {
			byID[u.ID] = u.Fields
		}
	}
	return byID
}

func TestExecuteCapsWorkingSet(t *testing.T) {
	api := new(mockCampaignAPI)
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)

	leads := make([]entity.Lead, 12)
	for i := range leads {
		leads[i] = entity.Lead{ID: "rec"} // sem e-mail: tudo vira Skip, sem rede
	}

	report, err := uc.Execute(context.Background(), leads, 5)

	require.NoError(t, err)
	assert.Equal(t, 12, report.Total)
	assert.Equal(t, 5, report.Processed)
	assert.Equal(t, 7, report.Skipped)
}

func TestExecuteSuccessAdvancesSyncTimestamp(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("ListCampaigns", campaignPageSize, 0).Return([]instantly.CampaignItem{
		{ID: "camp-1", Name: "Plumbing - Cold Outreach"},
	}, nil)
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(nil, nil)
	api.On("BulkAddLeads", "camp-1", mock.Anything).Return(1, []instantly.CreatedLead{{ID: "new-id", Index: 0}}, nil)
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)

	report, err := uc.Execute(context.Background(), []entity.Lead{{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	}}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.ByOperation[entity.OpCreate])

	fields := capturedUpdates(store)["rec1"]
	require.NotNil(t, fields)
	assert.Equal(t, "2025-03-01T12:00:00Z", fields["last_synced_at"])
	assert.Equal(t, entity.SyncStatusSuccess, fields["instantly_statuts"])
	assert.Equal(t, "new-id", fields["instantly_lead_id"])
	assert.Equal(t, "camp-1", fields["instantly_campaign_id"])
}

func TestExecuteFailureLeavesLeadPending(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("ListCampaigns", campaignPageSize, 0).Return(nil, errors.New("status 500"))
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)

	report, err := uc.Execute(context.Background(), []entity.Lead{{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	}}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	fields := capturedUpdates(store)["rec1"]
	require.NotNil(t, fields)
	assert.Equal(t, entity.SyncStatusFailed, fields["instantly_statuts"])
	_, hasSyncedAt := fields["last_synced_at"]
	assert.False(t, hasSyncedAt, "falha não pode avançar last_synced_at")
}

func TestExecuteBlockedLeadIsCleanedUp(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("DeleteLead", remoteLeadID).Return(nil).Once()
	verifier := new(mockVerifierAPI)
	verifier.On("VerifySingle", "bad@b.com").Return(entity.VerificationInvalid).Once()
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)
	uc.Verifier = &LeadVerifier{API: verifier, Workers: 1}

	report, err := uc.Execute(context.Background(), []entity.Lead{{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "bad@b.com",
		InstantlyLeadID: remoteLeadID,
	}}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Blocked)
	assert.Equal(t, 0, report.Succeeded)

	fields := capturedUpdates(store)["rec1"]
	require.NotNil(t, fields)
	assert.Equal(t, entity.SyncStatusBlocked, fields["instantly_statuts"])
	assert.Nil(t, fields["instantly_lead_id"])
	assert.Nil(t, fields["instantly_campaign_id"])
	assert.Equal(t, "invalid", fields["verification_status"])
	assert.Equal(t, "2025-03-01T12:00:00Z", fields["last_synced_at"], "bloqueado sai do conjunto pendente")
	api.AssertExpectations(t)
}

func TestExecuteTrustedVerificationSkipsRemoteCall(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("ListCampaigns", campaignPageSize, 0).Return([]instantly.CampaignItem{
		{ID: "camp-1", Name: "Plumbing - Cold Outreach"},
	}, nil)
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(&instantly.LeadDetail{ID: "found-id"}, nil)
	verifier := new(mockVerifierAPI)
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)
	uc.Verifier = &LeadVerifier{API: verifier, Workers: 1}

	_, err := uc.Execute(context.Background(), []entity.Lead{{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
		VerificationStatus: "ok",
	}}, 0)

	require.NoError(t, err)
	verifier.AssertNotCalled(t, "VerifySingle", mock.Anything)

	fields := capturedUpdates(store)["rec1"]
	_, persisted := fields["verification_status"]
	assert.False(t, persisted, "status confiado não é regravado")
}

func TestExecuteClassifiesFailures(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("ListCampaigns", campaignPageSize, 0).Return([]instantly.CampaignItem{
		{ID: "camp-1", Name: "Plumbing - Cold Outreach"},
	}, nil)
	api.On("SearchLeadByEmail", mock.Anything, "camp-1").Return(nil, nil)
	api.On("BulkAddLeads", "camp-1", mock.Anything).Return(0, nil, errors.New("rate limit exceeded, status 429"))
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(nil)
	uc := newSyncUC(api, store)

	report, err := uc.Execute(context.Background(), []entity.Lead{{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	}}, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, report.FailureCategories[FailureRateLimited])
	require.Len(t, report.FailureSamples, 1)
	assert.Contains(t, report.FailureSamples[0], "rec1")
}

func TestExecuteDatastoreWriteFailureIsRunLevel(t *testing.T) {
	api := new(mockCampaignAPI)
	store := new(mockLeadStore)
	store.On("BatchUpdateLeads", mock.Anything, mock.Anything).Return(errors.New("airtable down"))
	uc := newSyncUC(api, store)

	report, err := uc.Execute(context.Background(), []entity.Lead{{ID: "rec1"}}, 0)

	require.Error(t, err)
	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.NotNil(t, report, "o relatório volta mesmo com a escrita falhando")
}
