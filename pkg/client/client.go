// Package client provides the Go client library for the charstore HTTP
// API. It speaks the {status, response} envelope and carries the bearer
// token for mutating calls.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marvelcat/charstore/pkg/schema"
)

// APIError is a non-200 response from the service, carrying the status
// code and the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("charstore api: status %d: %s", e.Status, e.Message)
}

// Client is a remote client for the charstore service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the service at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used for mutating calls.
func (c *Client) SetToken(token string) { c.token = token }

// ManualCharacter is the full field set for a manual create.
type ManualCharacter struct {
	Name          string
	Events        int
	Series        int
	Comics        int
	MaxComicPrice float64
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	params := url.Values{"email": {email}, "password": {password}}
	_, err := c.do(ctx, http.MethodPost, "/signup", params)
	return err
}

// LogIn verifies credentials and returns a fresh token. The token is
// also installed on the client for subsequent mutating calls.
func (c *Client) LogIn(ctx context.Context, email, password string) (string, error) {
	params := url.Values{"email": {email}, "password": {password}}
	raw, err := c.do(ctx, http.MethodGet, "/login", params)
	if err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	c.token = body.Token
	return body.Token, nil
}

// List fetches records matching the given id and name filters; with no
// filters it fetches the whole catalog.
func (c *Client) List(ctx context.Context, ids, names []string) ([]schema.CharacterRecord, error) {
	params := url.Values{}
	for _, id := range ids {
		params.Add("characterId", id)
	}
	for _, name := range names {
		params.Add("characterName", name)
	}
	return c.records(ctx, http.MethodGet, "/characters", params)
}

// CreateManual inserts a record with client-supplied fields.
func (c *Client) CreateManual(ctx context.Context, id string, m ManualCharacter) ([]schema.CharacterRecord, error) {
	params := url.Values{
		"characterId":   {id},
		"characterName": {m.Name},
		"number_events": {strconv.Itoa(m.Events)},
		"number_series": {strconv.Itoa(m.Series)},
		"number_comics": {strconv.Itoa(m.Comics)},
		"highest_price": {strconv.FormatFloat(m.MaxComicPrice, 'f', -1, 64)},
	}
	return c.records(ctx, http.MethodPost, "/characters", params)
}

// CreateEnriched inserts a record materialized from the upstream APIs.
func (c *Client) CreateEnriched(ctx context.Context, id string) ([]schema.CharacterRecord, error) {
	params := url.Values{"characterId": {id}}
	return c.records(ctx, http.MethodPost, "/characters", params)
}

// Delete removes all records matching the filters and returns the
// remaining catalog.
func (c *Client) Delete(ctx context.Context, ids, names []string) ([]schema.CharacterRecord, error) {
	params := url.Values{}
	for _, id := range ids {
		params.Add("characterId", id)
	}
	for _, name := range names {
		params.Add("characterName", name)
	}
	return c.records(ctx, http.MethodDelete, "/characters", params)
}

// ConvertPrice converts the max comic price of the record matching id
// and/or name between two currencies and returns the full catalog.
func (c *Client) ConvertPrice(ctx context.Context, id, name, from, to string) ([]schema.CharacterRecord, error) {
	params := url.Values{
		"original_currency": {from},
		"wanted_currency":   {to},
	}
	if id != "" {
		params.Set("characterId", id)
	}
	if name != "" {
		params.Set("characterName", name)
	}
	return c.records(ctx, http.MethodPut, "/characters", params)
}

// records issues a request whose response payload is a record list.
func (c *Client) records(ctx context.Context, method, path string, params url.Values) ([]schema.CharacterRecord, error) {
	raw, err := c.do(ctx, method, path, params)
	if err != nil {
		return nil, err
	}

	var body struct {
		Response []schema.CharacterRecord `json:"response"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Response, nil
}

// do issues one request and returns the raw body of a 200 response. A
// non-200 envelope becomes an APIError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Status   int             `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	raw := json.RawMessage{}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(raw)
		if err := json.Unmarshal(raw, &envelope); err == nil {
			var s string
			if json.Unmarshal(envelope.Response, &s) == nil {
				message = s
			}
		}
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}
	return raw, nil
}
