package enrich

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPublicKey  = "pub123"
	testPrivateKey = "priv456"
)

func fixedNow() time.Time {
	return time.Date(2023, time.March, 14, 15, 9, 26, 0, time.UTC)
}

func testClient(serverURL string) *Client {
	c := NewClient(serverURL, testPublicKey, testPrivateKey)
	c.now = fixedNow
	return c
}

func TestCharacterSignsRequest(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"apikey": r.URL.Query().Get("apikey"),
			"ts":     r.URL.Query().Get("ts"),
			"hash":   r.URL.Query().Get("hash"),
		}
		w.Write([]byte(`{"data":{"results":[{"name":"Thor","events":{"available":2},"series":{"available":3},"comics":{"available":4}}]}}`))
	}))
	defer srv.Close()

	sum, err := testClient(srv.URL).Character(context.Background(), "1009664")
	require.NoError(t, err)
	assert.Equal(t, CharacterSummary{Name: "Thor", Events: 2, Series: 3, Comics: 4}, sum)

	wantTS := fixedNow().Format(tsLayout)
	assert.Equal(t, testPublicKey, gotQuery["apikey"])
	assert.Equal(t, wantTS, gotQuery["ts"])

	wantHash := md5.Sum([]byte(wantTS + testPrivateKey + testPublicKey))
	assert.Equal(t, hex.EncodeToString(wantHash[:]), gotQuery["hash"],
		"hash must be computed over the same ts string the request carries")
}

func TestCharacterNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Character(context.Background(), "555")
	require.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestCharacterUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Character(context.Background(), "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCharacterNotFound)
}

func TestCharacterEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"results":[]}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Character(context.Background(), "1")
	require.Error(t, err)
}

func TestComicPricesFlattensAllPriceLists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1009664", r.URL.Query().Get("characterId"))
		w.Write([]byte(`{"data":{"results":[
			{"prices":[{"price":1.99},{"price":0}]},
			{"prices":[{"price":12.5}]}
		]}}`))
	}))
	defer srv.Close()

	prices, err := testClient(srv.URL).ComicPrices(context.Background(), "1009664")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.99, 0, 12.5}, prices)
}
