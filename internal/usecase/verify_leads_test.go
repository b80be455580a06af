package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func TestVerifyBatchTrustsStoredStatus(t *testing.T) {
	api := new(mockVerifierAPI)
	v := &LeadVerifier{API: api, Workers: 2}

	results := v.VerifyBatch([]entity.Lead{
		{ID: "rec1", KeyContactEmail: "a@b.com", VerificationStatus: "ok"},
		{ID: "rec2", KeyContactEmail: "c@d.com", VerificationStatus: "invalid"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, entity.VerificationOK, results[0].Status)
	assert.False(t, results[0].FromAPI)
	assert.Equal(t, entity.VerificationInvalid, results[1].Status)
	api.AssertNotCalled(t, "VerifySingle", mock.Anything)
}

func TestVerifyBatchNoEmailIsUnknown(t *testing.T) {
	api := new(mockVerifierAPI)
	v := &LeadVerifier{API: api, Workers: 2}

	results := v.VerifyBatch([]entity.Lead{{ID: "rec1"}})

	require.Len(t, results, 1)
	assert.Equal(t, entity.VerificationUnknown, results[0].Status)
	assert.True(t, results[0].FromAPI, "veredito novo precisa ser persistido")
	api.AssertNotCalled(t, "VerifySingle", mock.Anything)
}

func TestVerifyBatchCallsVerifierForUnverified(t *testing.T) {
	api := new(mockVerifierAPI)
	api.On("VerifySingle", "a@b.com").Return(entity.VerificationOK).Once()
	api.On("VerifySingle", "c@d.com").Return(entity.VerificationCatchAll).Once()
	v := &LeadVerifier{API: api, Workers: 2}

	results := v.VerifyBatch([]entity.Lead{
		{ID: "rec1", KeyContactEmail: " A@B.com "},
		{ID: "rec2", KeyContactEmail: "c@d.com"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, entity.VerificationOK, results[0].Status)
	assert.True(t, results[0].FromAPI)
	assert.True(t, results[0].Status.Good())
	assert.False(t, results[1].Status.Good())
	api.AssertExpectations(t)
}

func TestVerifyBatchReportsProgress(t *testing.T) {
	api := new(mockVerifierAPI)
	api.On("VerifySingle", mock.Anything).Return(entity.VerificationOK)
	var mu sync.Mutex
	var calls []int
	v := &LeadVerifier{
		API:     api,
		Workers: 1,
		OnProgress: func(done, total int) {
			mu.Lock()
			calls = append(calls, done)
			assert.Equal(t, 3, total)
			mu.Unlock()
		},
	}

	v.VerifyBatch([]entity.Lead{
		{ID: "rec1", VerificationStatus: "ok"},
		{ID: "rec2", KeyContactEmail: "a@b.com"},
		{ID: "rec3"},
	})

	assert.ElementsMatch(t, []int{1, 2, 3}, calls)
}
