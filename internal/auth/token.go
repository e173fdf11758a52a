package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid indicates a missing, malformed, expired, or
// tampered-with bearer token.
var ErrTokenInvalid = errors.New("invalid token")

// TokenTTL is how long an issued token stays valid.
const TokenTTL = time.Hour

// TokenIssuer issues and verifies HS256 access tokens. The subject claim
// carries the account id.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer builds an issuer signing with secret.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret, now: time.Now}
}

// Issue signs a token for the given account id, valid for TokenTTL.
func (i *TokenIssuer) Issue(accountID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses a token and returns the account id it was issued to.
func (i *TokenIssuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
