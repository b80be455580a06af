package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

type stubLeadStore struct {
	leads []entity.Lead
	err   error
}

func (s *stubLeadStore) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	return s.leads, s.err
}

func (s *stubLeadStore) BatchUpdateLeads(ctx context.Context, updates []entity.LeadUpdate) error {
	return nil
}

func (s *stubLeadStore) BatchCreateLeads(ctx context.Context, records []map[string]any) error {
	return nil
}

func (s *stubLeadStore) WritableFieldNames(ctx context.Context) (map[string]bool, error) {
	return nil, nil
}

func (s *stubLeadStore) ExistingContactKeys(ctx context.Context) (map[string]bool, map[string]bool, error) {
	return nil, nil, nil
}

func TestHandlePendingFiltersDirtyLeads(t *testing.T) {
	modified := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	synced := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewLeadHandler(&stubLeadStore{leads: []entity.Lead{
		{ID: "rec1", LastModifiedAt: &modified, LastSyncedAt: &synced},
		{ID: "rec2", LastModifiedAt: &synced, LastSyncedAt: &modified},
		{ID: "rec3"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/leads/pending", nil)
	rec := httptest.NewRecorder()
	h.HandlePending(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PendingLeadsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.Pending)
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "rec1", resp.Leads[0].ID)
}

func TestHandlePendingDatastoreFailure(t *testing.T) {
	h := NewLeadHandler(&stubLeadStore{err: errors.New("airtable down")})

	req := httptest.NewRequest(http.MethodGet, "/leads/pending", nil)
	rec := httptest.NewRecorder()
	h.HandlePending(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limite é por IP")
}
