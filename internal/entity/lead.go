package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entidade: Lead. Um candidato a contato comercial, espelho da linha no
// datastore. Os nomes de campo do datastore estão em LeadFieldNames.
type Lead struct {
	ID                 string     `json:"id"`
	CompanyName        string     `json:"company_name"`
	Industry           string     `json:"industry"`
	City               string     `json:"city,omitempty"`
	State              string     `json:"state,omitempty"`
	PostalCode         string     `json:"postal_code,omitempty"`
	PostalAddress      string     `json:"postal_address,omitempty"`
	Website            string     `json:"website,omitempty"`
	GenericPhone       string     `json:"generic_phone,omitempty"`
	Rating             float64    `json:"rating,omitempty"`
	KeyContactName     string     `json:"key_contact_name,omitempty"`
	KeyContactEmail    string     `json:"key_contact_email,omitempty"`
	KeyContactPosition string     `json:"key_contact_position,omitempty"`
	EmailAvailable     bool       `json:"email_available"`
	InstantlyLeadID    string     `json:"instantly_lead_id,omitempty"`
	InstantlyCampaign  string     `json:"instantly_campaign_id,omitempty"`
	SyncStatus         string     `json:"instantly_statuts,omitempty"`
	VerificationStatus string     `json:"verification_status,omitempty"`
	LastModifiedAt     *time.Time `json:"last_modified_at,omitempty"`
	LastSyncedAt       *time.Time `json:"last_synced_at,omitempty"`
}

// Sync status values escritos de volta no datastore.
const (
	SyncStatusSuccess = "Success"
	SyncStatusFailed  = "Failed"
	SyncStatusBlocked = "Blocked"
)

// IsPending reports whether the row was edited after its last successful sync.
// A lead with no last_modified_at never becomes pending.
func (l *Lead) IsPending() bool {
	if l.LastModifiedAt == nil {
		return false
	}
	if l.LastSyncedAt == nil {
		return true
	}
	return l.LastModifiedAt.After(*l.LastSyncedAt)
}

// Email devolve o e-mail normalizado (trim + lowercase), ou "" se não houver.
func (l *Lead) Email() string {
	return strings.ToLower(strings.TrimSpace(l.KeyContactEmail))
}

// HasDeliverableEmail: a linha está marcada como tendo e-mail E o e-mail existe.
func (l *Lead) HasDeliverableEmail() bool {
	return l.EmailAvailable && l.Email() != ""
}

// HasValidInstantlyLeadID: ponteiro presente e com cara de UUID.
func (l *Lead) HasValidInstantlyLeadID() bool {
	return IsValidLeadID(l.InstantlyLeadID)
}

// HasTrustedVerification: já existe um veredito persistido, não reverificar.
func (l *Lead) HasTrustedVerification() bool {
	return strings.TrimSpace(l.VerificationStatus) != ""
}

// IsValidLeadID valida o formato canônico de id da plataforma de campanha:
// UUID de 36 caracteres com 5 grupos separados por hífen. Qualquer outra
// forma (urn:uuid:, com chaves, hex puro) é tratada como id ausente.
func IsValidLeadID(id string) bool {
	if len(id) != 36 {
		return false
	}
	if strings.Count(id, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// CampaignName deriva o nome determinístico da campanha do lead.
// Industry vazio cai no bucket "Generic".
func (l *Lead) CampaignName() string {
	return CampaignNameFor(l.Industry)
}

// LeadUpdate é um update parcial de campos destinado ao batch do datastore.
// Valor nil em Fields limpa a célula.
type LeadUpdate struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// FilterPending devolve apenas os leads elegíveis para sync.
func FilterPending(leads []Lead) []Lead {
	var out []Lead
	for _, l := range leads {
		if l.IsPending() {
			out = append(out, l)
		}
	}
	return out
}
