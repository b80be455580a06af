package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/sanitize"
)

const defaultBaseURL = "https://api.airtable.com"

// Airtable aceita no máximo 10 registros por chamada de escrita.
const writeBatchSize = 10

// Tipos de campo que a API não deixa escrever (computados/sistema).
var nonWritableFieldTypes = map[string]bool{
	"autoNumber":           true,
	"barcode":              true,
	"button":               true,
	"count":                true,
	"createdBy":            true,
	"createdTime":          true,
	"externalSyncSource":   true,
	"formula":              true,
	"lastModifiedBy":       true,
	"lastModifiedTime":     true,
	"lookup":               true,
	"multipleLookupValues": true,
	"rollup":               true,
}

// Record é uma linha crua do Airtable.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type Client struct {
	apiKey  string
	baseID  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseID:  baseID,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ListRecords pagina a tabela inteira, opcionalmente restrita a alguns campos.
func (c *Client) ListRecords(table string, fields []string) ([]Record, error) {
	var out []Record
	offset := ""

	for {
		q := url.Values{}
		for _, f := range fields {
			q.Add("fields[]", f)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		if err := c.do(http.MethodGet, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("airtable list %s: %w", table, err)
		}

		out = append(out, page.Records...)
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// BatchUpdate aplica updates parciais em lotes de 10. Valores nil em Fields
// limpam a célula correspondente.
func (c *Client) BatchUpdate(table string, updates []Record) error {
	for start := 0; start < len(updates); start += writeBatchSize {
		end := min(start+writeBatchSize, len(updates))

		chunk := make([]map[string]any, 0, end-start)
		for _, u := range updates[start:end] {
			chunk = append(chunk, map[string]any{
				"id":     u.ID,
				"fields": sanitize.Sanitize(u.Fields),
			})
		}

		payload := map[string]any{"records": chunk, "typecast": true}
		if err := c.do(http.MethodPatch, c.tableURL(table), payload, nil); err != nil {
			return fmt.Errorf("airtable batch update %s: %w", table, err)
		}
	}
	return nil
}

// BatchCreate insere registros em lotes de 10. Se o Airtable recusar por um
// campo computado, o campo citado no erro é descartado e o lote reenviado
// uma vez.
func (c *Client) BatchCreate(table string, records []map[string]any) error {
	for start := 0; start < len(records); start += writeBatchSize {
		end := min(start+writeBatchSize, len(records))

		chunk := make([]map[string]any, 0, end-start)
		for _, fields := range records[start:end] {
			chunk = append(chunk, map[string]any{"fields": sanitize.Sanitize(fields)})
		}

		payload := map[string]any{"records": chunk, "typecast": true}
		err := c.do(http.MethodPost, c.tableURL(table), payload, nil)
		if err == nil {
			continue
		}

		dropped := droppedFieldFromError(err.Error())
		if dropped == "" {
			return fmt.Errorf("airtable batch create %s: %w", table, err)
		}

		log.Printf("⚠️ Airtable: campo '%s' recusado, reenviando lote sem ele", dropped)
		for _, rec := range chunk {
			delete(rec["fields"].(map[string]any), dropped)
		}
		if err := c.do(http.MethodPost, c.tableURL(table), payload, nil); err != nil {
			return fmt.Errorf("airtable batch create %s (retry): %w", table, err)
		}
	}
	return nil
}

// CreateRecord insere um registro único (tabela de log).
func (c *Client) CreateRecord(table string, fields map[string]any) error {
	payload := map[string]any{
		"records":  []map[string]any{{"fields": sanitize.Sanitize(fields)}},
		"typecast": true,
	}
	if err := c.do(http.MethodPost, c.tableURL(table), payload, nil); err != nil {
		return fmt.Errorf("airtable create %s: %w", table, err)
	}
	return nil
}

// WritableFieldNames consulta a Metadata API e devolve os campos graváveis
// da tabela. Set vazio em falha: o chamador decide o fallback.
func (c *Client) WritableFieldNames(table string) (map[string]bool, error) {
	var parsed struct {
		Tables []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Fields []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"fields"`
		} `json:"tables"`
	}

	u := fmt.Sprintf("%s/v0/meta/bases/%s/tables", c.baseURL, c.baseID)
	if err := c.do(http.MethodGet, u, nil, &parsed); err != nil {
		return nil, fmt.Errorf("airtable metadata: %w", err)
	}

	for _, t := range parsed.Tables {
		if t.ID != table && t.Name != table {
			continue
		}
		writable := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" || nonWritableFieldTypes[f.Type] {
				continue
			}
			writable[f.Name] = true
		}
		return writable, nil
	}
	return map[string]bool{}, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
}

func (c *Client) do(method, u string, payload, out any) error {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(body))
	}
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

// droppedFieldFromError extrai o nome do campo de um erro
// INVALID_VALUE_FOR_COLUMN (`... Field "xyz" ...`).
func droppedFieldFromError(msg string) string {
	if !strings.Contains(msg, "INVALID_VALUE_FOR_COLUMN") {
		return ""
	}
	_, after, found := strings.Cut(msg, `Field "`)
	if !found {
		return ""
	}
	name, _, found := strings.Cut(after, `"`)
	if !found {
		return ""
	}
	return name
}
