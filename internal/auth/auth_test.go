package auth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelcat/charstore/internal/store"
)

func newRegistry(t *testing.T) (*Registry, *TokenIssuer, *store.MemAccountTable) {
	t.Helper()
	accounts := store.NewMemAccountTable(nil)
	issuer := NewTokenIssuer([]byte("test-secret"))
	return NewRegistry(accounts, issuer, zerolog.Nop()), issuer, accounts
}

func TestSignUpAndLogIn(t *testing.T) {
	registry, issuer, accounts := newRegistry(t)

	require.NoError(t, registry.SignUp("a@example.com", "hunter2"))

	stored, err := accounts.LoadAll()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)
	assert.NotEqual(t, "hunter2", stored[0].PasswordHash, "password must be hashed")

	token, err := registry.LogIn("a@example.com", "hunter2")
	require.NoError(t, err)

	accountID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, stored[0].ID, accountID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	registry, _, accounts := newRegistry(t)

	require.NoError(t, registry.SignUp("a@example.com", "one"))
	err := registry.SignUp("a@example.com", "two")
	require.ErrorIs(t, err, ErrEmailTaken)

	stored, _ := accounts.LoadAll()
	assert.Len(t, stored, 1)
}

func TestLogInUnknownEmail(t *testing.T) {
	registry, _, _ := newRegistry(t)

	_, err := registry.LogIn("ghost@example.com", "pw")
	require.ErrorIs(t, err, ErrUnknownEmail)
}

func TestLogInWrongPassword(t *testing.T) {
	registry, _, _ := newRegistry(t)
	require.NoError(t, registry.SignUp("a@example.com", "right"))

	_, err := registry.LogIn("a@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))

	issuedAt := time.Now().Add(-2 * TokenTTL)
	issuer.now = func() time.Time { return issuedAt }
	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer([]byte("one")).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenIssuer([]byte("two")).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenIssuer([]byte("k")).Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
