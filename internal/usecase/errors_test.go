package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"nan payload", "Out of range float values are not JSON compliant: nan", FailureNaNJSON},
		{"rate limited", "rate limit exceeded, try later", FailureRateLimited},
		{"rate limited por status", "request failed with status 429 after retries", FailureRateLimited},
		{"config faltando", "missing api_key, campaign_id, or leads", FailureMissingConfig},
		{"id inválido", "invalid lead id: abc", FailureInvalidID},
		{"não encontrado", "instantly lead not found: 404", FailureNotFound},
		{"email mudou", "email changed and create failed: status 500", FailureEmailChange},
		{"duplicado", "lead already exists in campaign", FailureDuplicate},
		{"outro", "something odd happened", FailureOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFailure(tc.text))
		})
	}
}

func TestErrorTypes(t *testing.T) {
	de := &DomainError{Code: "EMPTY_CAMPAIGN_NAME", Message: "campaign name cannot be empty"}
	te := &TechnicalError{Code: "DATASTORE_WRITE_FAILED", Message: "airtable down"}

	assert.Equal(t, "EMPTY_CAMPAIGN_NAME: campaign name cannot be empty", de.Error())
	assert.Equal(t, "DATASTORE_WRITE_FAILED: airtable down", te.Error())
}
