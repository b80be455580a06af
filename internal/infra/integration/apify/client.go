package apify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"
	mapsActorID    = "compass~crawler-google-places"
)

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		// Rodada síncrona do actor pode demorar: timeout generoso.
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

// ScrapePlaces roda o actor de Google Maps de forma síncrona para
// "{query} in {zone}" e devolve os itens do dataset.
func (c *Client) ScrapePlaces(query, zone string, maxPlaces int) ([]Place, error) {
	input := runInput{
		SearchStringsArray:        []string{fmt.Sprintf("%s in %s", query, zone)},
		MaxCrawledPlacesPerSearch: maxPlaces,
		Language:                  "en",
		MaxImages:                 0,
		OneReviewPerPlace:         false,
		SkipClosedPlaces:          true,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, mapsActorID, url.QueryEscape(c.token))

	req, err := http.NewRequest(http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apify run failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("apify run rejected: %d - %s", resp.StatusCode, string(raw))
	}

	var items []Place
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("apify dataset decode: %w", err)
	}
	return items, nil
}

// MonthlyUsage devolve (uso, limite) do mês em USD para o dashboard de créditos.
func (c *Client) MonthlyUsage() (float64, float64, error) {
	var limit float64
	var me userResponse
	if err := c.getJSON("/users/me", &me); err == nil {
		limit = me.Data.Plan.MaxMonthlyUsageUsd
	}

	var usage usageResponse
	if err := c.getJSON("/users/me/usage/monthly", &usage); err != nil {
		return 0, 0, err
	}

	used := usage.Data.TotalUsageCreditsUsdBeforeVolumeDiscount
	if usage.Data.TotalUsageCreditsUsdAfterVolumeDiscount != nil {
		used = *usage.Data.TotalUsageCreditsUsdAfterVolumeDiscount
	}
	return used, limit, nil
}

func (c *Client) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("apify %s failed: %d - %s", path, resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
