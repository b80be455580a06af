package entity

import "strings"

// Campaign: container de cold outreach na plataforma externa, um por indústria.
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const campaignNameSuffix = " - Cold Outreach"

// CampaignNameFor deriva o nome único da campanha para uma indústria.
func CampaignNameFor(industry string) string {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		industry = "Generic"
	}
	return industry + campaignNameSuffix
}

// VerificationStatus é o enum fechado de vereditos de verificação de e-mail.
type VerificationStatus string

const (
	VerificationOK         VerificationStatus = "ok"
	VerificationInvalid    VerificationStatus = "invalid"
	VerificationCatchAll   VerificationStatus = "catch_all"
	VerificationUnknown    VerificationStatus = "unknown"
	VerificationDisposable VerificationStatus = "disposable"
)

var knownVerificationStatuses = map[VerificationStatus]bool{
	VerificationOK:         true,
	VerificationInvalid:    true,
	VerificationCatchAll:   true,
	VerificationUnknown:    true,
	VerificationDisposable: true,
}

// NormalizeVerificationStatus mapeia qualquer string para o enum fechado.
// Valores desconhecidos viram "unknown" (fail-safe: unknown é sempre ruim).
func NormalizeVerificationStatus(raw string) VerificationStatus {
	cleaned := VerificationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if knownVerificationStatuses[cleaned] {
		return cleaned
	}
	return VerificationUnknown
}

// Good: só "ok" libera o lead para sync; todo o resto é bloqueado.
func (s VerificationStatus) Good() bool {
	return s == VerificationOK
}
