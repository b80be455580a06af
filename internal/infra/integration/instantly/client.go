package instantly

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/sanitize"
)

const defaultBaseURL = "https://api.instantly.ai/api/v2"

// Variáveis registradas no schema da campanha antes de importar leads.
var campaignVariables = []string{"postalCode", "jobTitle", "address", "City", "state"}

const (
	maxTries       = 5
	backoffBase    = 1 * time.Second
	backoffCap429  = 30 * time.Second
	backoffCap5xx  = 10 * time.Second
	requestTimeout = 30 * time.Second
)

type Client struct {
	apiKey   string
	baseURL  string
	timezone string
	http     *http.Client

	// sleep é trocável nos testes para não esperar backoff de verdade.
	sleep func(time.Duration)
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timezone: "America/Chicago",
		http:     &http.Client{Timeout: requestTimeout},
		sleep:    time.Sleep,
	}
}

// SetScheduleTimezone troca o fuso da agenda padrão de novas campanhas.
func (c *Client) SetScheduleTimezone(tz string) {
	if tz != "" {
		c.timezone = tz
	}
}

// doWithRetry executa a chamada com a política uniforme de retry:
// 429 respeita Retry-After (senão backoff exponencial com teto de 30s),
// 5xx e erro de rede usam backoff exponencial com teto de 10s,
// máximo de 5 tentativas no total. Qualquer outro status é devolvido
// ao chamador sem retry.
func (c *Client) doWithRetry(method, path string, query url.Values, body []byte, withContentType bool) (int, []byte, error) {
	var lastStatus int
	var lastBody []byte
	var lastErr error

	for attempt := 0; attempt < maxTries; attempt++ {
		req, err := c.newRequest(method, path, query, body, withContentType)
		if err != nil {
			return 0, nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			c.sleep(backoff(attempt, backoffCap5xx))
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode
		lastBody = respBody
		lastErr = nil

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp)
			if wait <= 0 {
				wait = backoff(attempt, backoffCap429)
			}
			c.sleep(wait)
			continue
		}
		if resp.StatusCode >= 500 {
			c.sleep(backoff(attempt, backoffCap5xx))
			continue
		}

		return resp.StatusCode, respBody, nil
	}

	if lastErr != nil {
		return 0, nil, fmt.Errorf("instantly request failed after %d tries: %w", maxTries, lastErr)
	}
	return lastStatus, lastBody, fmt.Errorf("instantly request exhausted retries: %d - %s", lastStatus, string(lastBody))
}

func (c *Client) newRequest(method, path string, query url.Values, body []byte, withContentType bool) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	// DELETE com corpo vazio não pode levar Content-Type, a API rejeita.
	if withContentType {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func backoff(attempt int, limit time.Duration) time.Duration {
	d := backoffBase << attempt
	if d > limit {
		return limit
	}
	return d
}

func retryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// ListCampaigns devolve uma página da listagem de campanhas.
func (c *Client) ListCampaigns(limit, skip int) ([]CampaignItem, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))

	status, body, err := c.doWithRetry(http.MethodGet, "/campaigns", q, nil, false)
	if err != nil {
		return nil, fmt.Errorf("instantly list campaigns: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("instantly list campaigns failed: %d - %s", status, string(body))
	}

	var parsed campaignListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("instantly list campaigns decode: %w", err)
	}
	return parsed.Items, nil
}

// CreateCampaign cria a campanha com a agenda mínima válida e devolve o id.
func (c *Client) CreateCampaign(name string) (string, error) {
	payload, err := json.Marshal(createCampaignRequest{
		Name:             name,
		CampaignSchedule: c.defaultSchedule(),
	})
	if err != nil {
		return "", err
	}

	status, body, err := c.doWithRetry(http.MethodPost, "/campaigns", nil, payload, true)
	if err != nil {
		return "", fmt.Errorf("instantly create campaign: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("instantly create campaign failed: %d - %s", status, string(body))
	}

	var parsed createCampaignResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("instantly create campaign decode: %w", err)
	}
	id := parsed.ID
	if id == "" {
		id = parsed.Data.ID
	}
	if id == "" {
		return "", fmt.Errorf("instantly create campaign returned no id: %s", string(body))
	}
	log.Printf("✅ Instantly: campanha criada '%s' (%s)", name, id)
	return id, nil
}

func (c *Client) defaultSchedule() CampaignSchedule {
	return CampaignSchedule{
		Schedules: []ScheduleEntry{
			{
				Name:   "Default Schedule",
				Timing: ScheduleTiming{From: "09:00", To: "17:00"},
				Days: map[string]bool{
					"0": false, "1": true, "2": true, "3": true,
					"4": true, "5": true, "6": false,
				},
				Timezone: c.timezone,
			},
		},
	}
}

// EnsureCampaignVariables registra o schema de variáveis customizadas na
// campanha. Best-effort: falha aqui nunca bloqueia o export.
func (c *Client) EnsureCampaignVariables(campaignID string, variables []string) error {
	if c.apiKey == "" || campaignID == "" || len(variables) == 0 {
		return fmt.Errorf("missing api_key/campaign_id/variables")
	}

	payload, err := json.Marshal(registerVariablesRequest{Variables: variables})
	if err != nil {
		return err
	}

	status, body, err := c.doWithRetry(http.MethodPost, "/campaigns/"+campaignID+"/variables", nil, payload, true)
	if err != nil {
		return fmt.Errorf("instantly variables register: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("instantly variables register failed: %d - %s", status, string(body))
	}
	return nil
}

// BulkAddLeads exporta leads para a campanha com skip_if_in_campaign ligado
// (reenviar um lead já presente é seguro). Se a primeira tentativa falhar,
// reenvia uma vez sem custom_variables: divergência de schema em metadado
// opcional não pode bloquear o sync dos campos de contato.
func (c *Client) BulkAddLeads(campaignID string, leads []LeadInput) (int, []CreatedLead, error) {
	if c.apiKey == "" || campaignID == "" || len(leads) == 0 {
		return 0, nil, fmt.Errorf("missing api_key, campaign_id, or leads")
	}

	if err := c.EnsureCampaignVariables(campaignID, campaignVariables); err != nil {
		log.Printf("⚠️ Instantly: registro de variáveis falhou (seguindo mesmo assim): %v", err)
	}

	status, body, err := c.postBulkAdd(campaignID, leads, true)
	if err != nil {
		return 0, nil, fmt.Errorf("instantly export: %w", err)
	}
	if status == http.StatusOK {
		return parseBulkAdd(body)
	}

	firstErr := fmt.Sprintf("instantly export failed: %d - %s", status, string(body))
	log.Printf("⚠️ %s, tentando de novo sem custom_variables", firstErr)

	status, body, err = c.postBulkAdd(campaignID, leads, false)
	if err != nil {
		return 0, nil, fmt.Errorf("%s | fallback: %v", firstErr, err)
	}
	if status != http.StatusOK {
		return 0, nil, fmt.Errorf("%s | instantly export failed (fallback): %d - %s", firstErr, status, string(body))
	}
	return parseBulkAdd(body)
}

func (c *Client) postBulkAdd(campaignID string, leads []LeadInput, withCustomVars bool) (int, []byte, error) {
	wireLeads := make([]any, 0, len(leads))
	for _, l := range leads {
		m := map[string]any{
			"email":        l.Email,
			"first_name":   l.FirstName,
			"last_name":    l.LastName,
			"company_name": l.CompanyName,
			"website":      l.Website,
			"phone":        l.Phone,
		}
		if withCustomVars && len(l.CustomVariables) > 0 {
			m["custom_variables"] = l.CustomVariables
		}
		wireLeads = append(wireLeads, m)
	}

	payload := sanitize.Sanitize(map[string]any{
		"campaign_id":         campaignID,
		"skip_if_in_campaign": true,
		"leads":               wireLeads,
	})
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	return c.doWithRetry(http.MethodPost, "/leads/add", nil, raw, true)
}

func parseBulkAdd(body []byte) (int, []CreatedLead, error) {
	var parsed bulkAddResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, nil, fmt.Errorf("instantly export decode: %w", err)
	}
	return len(parsed.CreatedLeads), parsed.CreatedLeads, nil
}

// GetLead busca o lead remoto pelo id.
func (c *Client) GetLead(id string) (*LeadDetail, error) {
	status, body, err := c.doWithRetry(http.MethodGet, "/leads/"+id, nil, nil, false)
	if err != nil {
		return nil, fmt.Errorf("instantly get lead: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("instantly lead not found: 404 - %s", string(body))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("instantly get lead failed: %d - %s", status, string(body))
	}

	var parsed LeadDetail
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("instantly get lead decode: %w", err)
	}
	return &parsed, nil
}

// SearchLeadByEmail procura um lead pelo e-mail, opcionalmente restrito à
// campanha. Devolve (nil, nil) quando não há resultado. Se a plataforma tiver
// e-mails duplicados, o primeiro item da busca vence.
func (c *Client) SearchLeadByEmail(email, campaignID string) (*LeadDetail, error) {
	payload, err := json.Marshal(searchLeadsRequest{
		Campaign: campaignID,
		Search:   email,
		Limit:    1,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := c.doWithRetry(http.MethodPost, "/leads/list", nil, payload, true)
	if err != nil {
		return nil, fmt.Errorf("instantly search lead: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("instantly search lead failed: %d - %s", status, string(body))
	}

	var parsed leadListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("instantly search lead decode: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, nil
	}
	return &parsed.Items[0], nil
}

// UpdateLead aplica um PATCH nos campos de contato do lead remoto.
func (c *Client) UpdateLead(id string, lead LeadInput) error {
	payload := map[string]any{
		"email":        lead.Email,
		"first_name":   lead.FirstName,
		"last_name":    lead.LastName,
		"company_name": lead.CompanyName,
		"website":      lead.Website,
		"phone":        lead.Phone,
	}
	if len(lead.CustomVariables) > 0 {
		payload["custom_variables"] = lead.CustomVariables
	}
	raw, err := json.Marshal(sanitize.Sanitize(payload))
	if err != nil {
		return err
	}

	status, body, err := c.doWithRetry(http.MethodPatch, "/leads/"+id, nil, raw, true)
	if err != nil {
		return fmt.Errorf("instantly update lead: %w", err)
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("instantly lead not found: 404 - %s", string(body))
	}
	if status != http.StatusOK {
		return fmt.Errorf("instantly update lead failed: %d - %s", status, string(body))
	}
	return nil
}

// DeleteLead remove o lead remoto. 404 volta como erro contendo "not found";
// o chamador decide se ausência conta como sucesso.
func (c *Client) DeleteLead(id string) error {
	status, body, err := c.doWithRetry(http.MethodDelete, "/leads/"+id, nil, nil, false)
	if err != nil {
		return fmt.Errorf("instantly delete lead: %w", err)
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("instantly lead not found: 404 - %s", string(body))
	default:
		return fmt.Errorf("instantly delete lead failed: %d - %s", status, string(body))
	}
}

// PlanDetails busca o plano/limites da workspace (dashboard de créditos).
func (c *Client) PlanDetails() (map[string]any, error) {
	status, body, err := c.doWithRetry(http.MethodGet, "/workspace-billing/plan-details", nil, nil, false)
	if err != nil {
		return nil, fmt.Errorf("instantly plan details: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("instantly plan details failed: %d - %s", status, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("instantly plan details decode: %w", err)
	}
	return parsed, nil
}
