// Package enrich queries the Marvel character-metadata and comics APIs
// to materialize a catalog record from a character id alone.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrCharacterNotFound is returned when the upstream reports that the
// character id does not exist. Every other upstream failure is a plain
// error the caller treats as an outage.
var ErrCharacterNotFound = errors.New("character id not found")

// DefaultBaseURL is the public Marvel API gateway.
const DefaultBaseURL = "http://gateway.marvel.com"

// DefaultTimeout bounds every upstream request. The catalog does not
// retry; a timeout surfaces to the caller as an upstream failure.
const DefaultTimeout = 10 * time.Second

// CharacterSummary is the slice of upstream character metadata the
// catalog cares about: the display name and the availability counts.
type CharacterSummary struct {
	Name   string
	Events int
	Series int
	Comics int
}

// Client is a stateless request/response adapter for the Marvel API.
type Client struct {
	baseURL    string
	publicKey  string
	privateKey string
	http       *http.Client
	now        func() time.Time
}

// NewClient builds a client for the given gateway and key pair.
func NewClient(baseURL, publicKey, privateKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		publicKey:  publicKey,
		privateKey: privateKey,
		http:       &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
}

type availability struct {
	Available int `json:"available"`
}

type characterEnvelope struct {
	Data struct {
		Results []struct {
			Name   string       `json:"name"`
			Events availability `json:"events"`
			Series availability `json:"series"`
			Comics availability `json:"comics"`
		} `json:"results"`
	} `json:"data"`
}

type comicsEnvelope struct {
	Data struct {
		Results []struct {
			Prices []struct {
				Price float64 `json:"price"`
			} `json:"prices"`
		} `json:"results"`
	} `json:"data"`
}

// Character fetches name and availability counts for a character id.
func (c *Client) Character(ctx context.Context, id string) (CharacterSummary, error) {
	var env characterEnvelope
	if err := c.get(ctx, "/v1/public/characters/"+id, nil, &env); err != nil {
		return CharacterSummary{}, err
	}
	if len(env.Data.Results) == 0 {
		return CharacterSummary{}, fmt.Errorf("marvel character response has no results")
	}

	r := env.Data.Results[0]
	return CharacterSummary{
		Name:   r.Name,
		Events: r.Events.Available,
		Series: r.Series.Available,
		Comics: r.Comics.Available,
	}, nil
}

// ComicPrices fetches every listed price of every comic featuring the
// character. The caller derives the maximum.
func (c *Client) ComicPrices(ctx context.Context, id string) ([]float64, error) {
	extra := url.Values{"characterId": {id}}
	var env comicsEnvelope
	if err := c.get(ctx, "/v1/public/characters/"+id+"/comics", extra, &env); err != nil {
		return nil, err
	}

	var prices []float64
	for _, comic := range env.Data.Results {
		for _, p := range comic.Prices {
			prices = append(prices, p.Price)
		}
	}
	return prices, nil
}

// get issues a signed GET and decodes the 200 body into out. A 404 maps
// to ErrCharacterNotFound; any other non-200 is an upstream failure.
func (c *Client) get(ctx context.Context, path string, extra url.Values, out any) error {
	params := c.credentials()
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build marvel request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("marvel request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrCharacterNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("marvel api returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode marvel response: %w", err)
	}
	return nil
}
