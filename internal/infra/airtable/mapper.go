package airtable

import (
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Campos da tabela de leads pedidos na listagem. A coluna de status carrega
// a grafia histórica "instantly_statuts", tem que bater com o datastore.
var LeadFields = []string{
	"company_name", "industry", "city", "state", "postal_code",
	"postal_address", "website", "generic_phone", "rating",
	"key_contact_name", "key_contact_email", "key_contact_position",
	"email_available", "instantly_lead_id", "instantly_campaign_id",
	"instantly_statuts", "verification_status",
	"last_modified_at", "last_synced_at",
}

// LeadFromRecord converte uma linha crua do Airtable na entidade Lead.
// Campos multi-select (industry) pegam o primeiro elemento.
func LeadFromRecord(rec Record) entity.Lead {
	f := rec.Fields
	return entity.Lead{
		ID:                 rec.ID,
		CompanyName:        fieldString(f["company_name"]),
		Industry:           fieldString(f["industry"]),
		City:               fieldString(f["city"]),
		State:              fieldString(f["state"]),
		PostalCode:         fieldString(f["postal_code"]),
		PostalAddress:      fieldString(f["postal_address"]),
		Website:            fieldString(f["website"]),
		GenericPhone:       fieldString(f["generic_phone"]),
		Rating:             fieldFloat(f["rating"]),
		KeyContactName:     fieldString(f["key_contact_name"]),
		KeyContactEmail:    fieldString(f["key_contact_email"]),
		KeyContactPosition: fieldString(f["key_contact_position"]),
		EmailAvailable:     fieldBool(f["email_available"]),
		InstantlyLeadID:    fieldString(f["instantly_lead_id"]),
		InstantlyCampaign:  fieldString(f["instantly_campaign_id"]),
		SyncStatus:         fieldString(f["instantly_statuts"]),
		VerificationStatus: fieldString(f["verification_status"]),
		LastModifiedAt:     fieldTime(f["last_modified_at"]),
		LastSyncedAt:       fieldTime(f["last_synced_at"]),
	}
}

// LeadsFromRecords converte a listagem inteira.
func LeadsFromRecords(recs []Record) []entity.Lead {
	out := make([]entity.Lead, 0, len(recs))
	for _, r := range recs {
		out = append(out, LeadFromRecord(r))
	}
	return out
}

func fieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case []any:
		if len(s) == 0 {
			return ""
		}
		return fieldString(s[0])
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", s), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func fieldBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "1" || strings.EqualFold(b, "true")
	case float64:
		return b == 1
	default:
		return false
	}
}

func fieldFloat(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func fieldTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
