package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelcat/charstore/internal/api"
	"github.com/marvelcat/charstore/internal/auth"
	"github.com/marvelcat/charstore/internal/catalog"
	"github.com/marvelcat/charstore/internal/exchange"
	"github.com/marvelcat/charstore/internal/store"
)

// stubEnricher satisfies catalog.Enricher; the client tests never take
// the enrichment path.
type stubEnricher struct{ catalog.Enricher }

func newTestService(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":4.25}`))
	}))
	t.Cleanup(fx.Close)

	log := zerolog.Nop()
	table := store.NewMemCharacterTable(nil)
	svc := catalog.NewService(table, stubEnricher{}, exchange.NewClient(fx.URL, "k"), log)
	issuer := auth.NewTokenIssuer([]byte("client-test"))
	registry := auth.NewRegistry(store.NewMemAccountTable(nil), issuer, log)

	h := &api.Handler{Catalog: svc, Accounts: registry, Log: log}
	srv := httptest.NewServer(api.NewRouter(h, issuer, log))
	t.Cleanup(srv.Close)

	return New(srv.URL)
}

func TestClientFullFlow(t *testing.T) {
	c := newTestService(t)
	ctx := context.Background()

	require.NoError(t, c.SignUp(ctx, "cli@example.com", "pw"))

	token, err := c.LogIn(ctx, "cli@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	created, err := c.CreateManual(ctx, "77", ManualCharacter{
		Name: "Test Hero", Events: 2, Series: 3, Comics: 4, MaxComicPrice: 9.99,
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "Test Hero", created[0].Name)

	listed, err := c.List(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	converted, err := c.ConvertPrice(ctx, "77", "", "USD", "EUR")
	require.NoError(t, err)
	require.Len(t, converted, 1)
	assert.Equal(t, 4.25, *converted[0].MaxComicPrice)

	remaining, err := c.Delete(ctx, []string{"77"}, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestClientAPIError(t *testing.T) {
	c := newTestService(t)
	ctx := context.Background()

	// Mutating without a token is rejected by the gate.
	_, err := c.CreateManual(ctx, "1", ManualCharacter{Name: "n", MaxComicPrice: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClientLoginFailure(t *testing.T) {
	c := newTestService(t)

	_, err := c.LogIn(context.Background(), "ghost@example.com", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Invalid email")
}
