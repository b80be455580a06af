package apollo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Cargos priorizados na busca de contato-chave.
var targetTitles = []string{"owner", "founder", "ceo", "director", "partner", "president", "manager"}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// EnrichDomain faz o enriquecimento em dois passos: busca a melhor pessoa do
// domínio e depois o match para liberar o e-mail. Best-effort: devolve
// (nil, nil) quando não há pessoa; nome sem e-mail também é resultado válido.
func (c *Client) EnrichDomain(domain string) (*EnrichedContact, error) {
	var search searchResponse
	err := c.postJSON("/mixed_people/search", searchRequest{
		QOrganizationDomains: domain,
		Page:                 1,
		PerPage:              1,
		PersonTitles:         targetTitles,
		ContactEmailStatus:   []string{"verified"},
	}, &search)
	if err != nil {
		return nil, err
	}
	if len(search.People) == 0 {
		return nil, nil
	}

	best := search.People[0]
	contact := &EnrichedContact{Name: best.Name, Position: best.Title}
	if best.ID == "" {
		return contact, nil
	}

	var match matchResponse
	err = c.postJSON("/people/match", matchRequest{ID: best.ID, RevealPersonalEmails: true}, &match)
	if err != nil || match.Person == nil {
		// Sem match ainda devolvemos o nome/cargo do primeiro passo.
		return contact, nil
	}

	contact.Email = match.Person.Email
	if match.Person.Title != "" {
		contact.Position = match.Person.Title
	}
	return contact, nil
}

func (c *Client) postJSON(path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{status: resp.StatusCode}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type statusError struct{ status int }

func (e *statusError) Error() string {
	return fmt.Sprintf("apollo request failed with status %d", e.status)
}
