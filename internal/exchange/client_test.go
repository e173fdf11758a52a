package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		assert.Equal(t, "9.99", r.URL.Query().Get("amount"))
		w.Write([]byte(`{"success":true,"result":8.5}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "secret").Convert(context.Background(), "USD", "EUR", 9.99)
	require.NoError(t, err)
	assert.Equal(t, 8.5, got)
}

func TestConvertUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad").Convert(context.Background(), "USD", "EUR", 1)
	require.Error(t, err)
}

func TestConvertMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Convert(context.Background(), "USD", "EUR", 1)
	require.Error(t, err)
}
