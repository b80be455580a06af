package airtable

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// LeadTable expõe a tabela de leads do Airtable no contrato que os use cases
// esperam. O client por baixo não conhece contexto; o cancelamento aqui é só
// o checkpoint entre páginas e lotes.
type LeadTable struct {
	Client *Client
	Table  string
}

func NewLeadTable(client *Client, table string) *LeadTable {
	if table == "" {
		table = "Leads"
	}
	return &LeadTable{Client: client, Table: table}
}

func (t *LeadTable) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := t.Client.ListRecords(t.Table, LeadFields)
	if err != nil {
		return nil, err
	}
	return LeadsFromRecords(recs), nil
}

func (t *LeadTable) BatchUpdateLeads(ctx context.Context, updates []entity.LeadUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recs := make([]Record, 0, len(updates))
	for _, u := range updates {
		recs = append(recs, Record{ID: u.ID, Fields: u.Fields})
	}
	return t.Client.BatchUpdate(t.Table, recs)
}

func (t *LeadTable) BatchCreateLeads(ctx context.Context, records []map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.Client.BatchCreate(t.Table, records)
}

func (t *LeadTable) WritableFieldNames(ctx context.Context) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.Client.WritableFieldNames(t.Table)
}

// ExistingContactKeys devolve as chaves de dedupe da base inteira: domínio do
// site normalizado e telefone só com dígitos.
func (t *LeadTable) ExistingContactKeys(ctx context.Context) (map[string]bool, map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	recs, err := t.Client.ListRecords(t.Table, []string{"website", "generic_phone"})
	if err != nil {
		return nil, nil, err
	}

	websites := map[string]bool{}
	phones := map[string]bool{}
	for _, rec := range recs {
		if site := normalizeWebsiteKey(fieldString(rec.Fields["website"])); site != "" {
			websites[site] = true
		}
		if phone := phoneDigits(fieldString(rec.Fields["generic_phone"])); phone != "" {
			phones[phone] = true
		}
	}
	return websites, phones, nil
}

func normalizeWebsiteKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

func phoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
