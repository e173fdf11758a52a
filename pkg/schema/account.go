package schema

// Account is one row of the credential table. PasswordHash is a bcrypt
// hash, never the plaintext password.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// AccountColumns is the canonical column order of the account table.
var AccountColumns = []string{"id", "email", "password"}
