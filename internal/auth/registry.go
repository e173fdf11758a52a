// Package auth holds the account registry and the bearer-token gate
// that protects mutating catalog operations.
package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/marvelcat/charstore/internal/store"
	"github.com/marvelcat/charstore/pkg/schema"
)

var (
	// ErrEmailTaken indicates a signup with an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already exists")

	// ErrUnknownEmail indicates a login with an unregistered email.
	ErrUnknownEmail = errors.New("invalid email")

	// ErrInvalidPassword indicates a login with the wrong password.
	ErrInvalidPassword = errors.New("invalid password")
)

// Registry manages account credentials over the account table. Passwords
// are stored as bcrypt hashes only.
type Registry struct {
	accounts store.AccountTable
	issuer   *TokenIssuer
	log      zerolog.Logger
}

// NewRegistry wires an account registry.
func NewRegistry(accounts store.AccountTable, issuer *TokenIssuer, log zerolog.Logger) *Registry {
	return &Registry{accounts: accounts, issuer: issuer, log: log}
}

// SignUp creates an account for email. Fails with ErrEmailTaken if the
// email is already registered.
func (r *Registry) SignUp(email, password string) error {
	accounts, err := r.accounts.LoadAll()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.Email == email {
			return ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	accounts = append(accounts, schema.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err := r.accounts.SaveAll(accounts); err != nil {
		return err
	}

	r.log.Info().Str("email", email).Msg("account created")
	return nil
}

// LogIn verifies the credentials and returns a fresh bearer token bound
// to the account id. The token is handed to the caller and not retained.
func (r *Registry) LogIn(email, password string) (string, error) {
	accounts, err := r.accounts.LoadAll()
	if err != nil {
		return "", err
	}

	var account *schema.Account
	for i := range accounts {
		if accounts[i].Email == email {
			account = &accounts[i]
			break
		}
	}
	if account == nil {
		return "", ErrUnknownEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return r.issuer.Issue(account.ID)
}
