package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
)

const remoteLeadID = "550e8400-e29b-41d4-a716-446655440000"

func plumbingDirectory(api *mockCampaignAPI) *CampaignDirectory {
	api.On("ListCampaigns", campaignPageSize, 0).Return([]instantly.CampaignItem{
		{ID: "camp-1", Name: "Plumbing - Cold Outreach"},
	}, nil)
	return NewCampaignDirectory(api)
}

func TestReconcileCreatesFreshLead(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(nil, nil).Once()
	api.On("BulkAddLeads", "camp-1", mock.Anything).Return(1, []instantly.CreatedLead{{ID: "new-id", Index: 0}}, nil).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	})

	assert.True(t, out.Success)
	assert.Equal(t, entity.OpCreate, out.Operation)
	assert.Equal(t, "new-id", out.NewInstantlyLeadID)
	assert.Equal(t, "camp-1", out.CampaignID)
	api.AssertExpectations(t)
}

func TestReconcileUpdatesWhenRemoteEmailMatches(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("GetLead", remoteLeadID).Return(&instantly.LeadDetail{ID: remoteLeadID, Email: "A@B.com"}, nil).Once()
	api.On("UpdateLead", remoteLeadID, mock.Anything).Return(nil).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
		InstantlyLeadID: remoteLeadID,
	})

	assert.True(t, out.Success)
	assert.Equal(t, entity.OpUpdate, out.Operation)
	assert.Equal(t, remoteLeadID, out.NewInstantlyLeadID)
	api.AssertNotCalled(t, "BulkAddLeads", mock.Anything, mock.Anything)
}

func TestReconcileDeletesWhenEmailUnavailable(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("DeleteLead", remoteLeadID).Return(errors.New("instantly lead not found: 404")).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		InstantlyLeadID: remoteLeadID,
	})

	assert.True(t, out.Success, "remoto já ausente conta como sucesso")
	assert.Equal(t, entity.OpDelete, out.Operation)
}

func TestReconcileLinksExistingRemoteLead(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(&instantly.LeadDetail{ID: "found-id", Email: "a@b.com"}, nil).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	})

	assert.True(t, out.Success)
	assert.Equal(t, entity.OpLink, out.Operation)
	assert.Equal(t, "found-id", out.NewInstantlyLeadID)
	api.AssertNotCalled(t, "BulkAddLeads", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "UpdateLead", mock.Anything, mock.Anything)
}

func TestReconcileSkipsWithoutEmail(t *testing.T) {
	api := new(mockCampaignAPI)
	r := &LeadReconciler{API: api, Directory: NewCampaignDirectory(api)}

	out := r.Reconcile(entity.Lead{ID: "rec1", InstantlyLeadID: "garbage-pointer"})

	assert.True(t, out.Success)
	assert.Equal(t, entity.OpSkip, out.Operation)
	api.AssertNotCalled(t, "DeleteLead", mock.Anything)
}

func TestReconcileEmailChangedDeleteThenCreateFailureClearsPointer(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("GetLead", remoteLeadID).Return(&instantly.LeadDetail{ID: remoteLeadID, Email: "old@b.com"}, nil).Once()
	api.On("SearchLeadByEmail", "new@b.com", "camp-1").Return(nil, nil)
	api.On("DeleteLead", remoteLeadID).Return(nil).Once()
	api.On("BulkAddLeads", "camp-1", mock.Anything).Return(0, nil, errors.New("status 500")).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "new@b.com",
		InstantlyLeadID: remoteLeadID,
	})

	require.False(t, out.Success)
	assert.True(t, out.ClearRemoteID, "o remoto antigo já foi deletado, ponteiro está morto")
	assert.Contains(t, out.Error, "create failed")
}

func TestReconcileFailsWhenCampaignUnavailable(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("ListCampaigns", campaignPageSize, 0).Return(nil, errors.New("status 500"))
	r := &LeadReconciler{API: api, Directory: NewCampaignDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	})

	require.False(t, out.Success)
	assert.Contains(t, out.Error, "no campaign available")
	api.AssertNotCalled(t, "BulkAddLeads", mock.Anything, mock.Anything)
}

func TestReconcileZeroCreatedLinksAfterResearch(t *testing.T) {
	api := new(mockCampaignAPI)
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(nil, nil).Once()
	api.On("BulkAddLeads", "camp-1", mock.Anything).Return(0, []instantly.CreatedLead{}, nil).Once()
	api.On("SearchLeadByEmail", "a@b.com", "camp-1").Return(&instantly.LeadDetail{ID: "dup-id"}, nil).Once()
	r := &LeadReconciler{API: api, Directory: plumbingDirectory(api)}

	out := r.Reconcile(entity.Lead{
		ID: "rec1", Industry: "Plumbing",
		EmailAvailable: true, KeyContactEmail: "a@b.com",
	})

	assert.True(t, out.Success)
	assert.Equal(t, entity.OpLink, out.Operation)
	assert.Equal(t, "dup-id", out.NewInstantlyLeadID)
}
