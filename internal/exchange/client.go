// Package exchange queries an external exchange-rate API to convert an
// amount between two currencies.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the public exchangerates data API.
const DefaultBaseURL = "https://api.apilayer.com/exchangerates_data"

// DefaultTimeout bounds every conversion request.
const DefaultTimeout = 10 * time.Second

// Client is a stateless request/response adapter for the currency API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for the given API base and key.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// Convert returns amount converted from one currency code to another.
func (c *Client) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	params := url.Values{
		"from":   {from},
		"to":     {to},
		"amount": {strconv.FormatFloat(amount, 'f', -1, 64)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/convert?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange api returned status %d", resp.StatusCode)
	}

	var body struct {
		Result *float64 `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode exchange response: %w", err)
	}
	if body.Result == nil {
		return 0, fmt.Errorf("exchange response has no result")
	}
	return *body.Result, nil
}
