package millionverifier

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const defaultBaseURL = "https://api.millionverifier.com/api/v3/"

// apiTimeoutSeconds é o timeout pedido à API; o timeout HTTP fica um pouco acima.
const apiTimeoutSeconds = 10

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
		http:    &http.Client{Timeout: (apiTimeoutSeconds + 5) * time.Second},
	}
}

type verifyResponse struct {
	Result string `json:"result"`
}

// VerifySingle classifica um e-mail. Qualquer erro de rede, status não-200 ou
// resposta irreconhecível vira "unknown": fail-safe, unknown é sempre ruim.
func (c *Client) VerifySingle(email string) entity.VerificationStatus {
	if c.apiKey == "" || strings.TrimSpace(email) == "" {
		return entity.VerificationUnknown
	}

	q := url.Values{}
	q.Set("api", c.apiKey)
	q.Set("email", strings.ToLower(strings.TrimSpace(email)))
	q.Set("timeout", strconv.Itoa(apiTimeoutSeconds))

	resp, err := c.http.Get(c.baseURL + "?" + q.Encode())
	if err != nil {
		return entity.VerificationUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.VerificationUnknown
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return entity.VerificationUnknown
	}
	return entity.NormalizeVerificationStatus(parsed.Result)
}
