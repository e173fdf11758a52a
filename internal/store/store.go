// Package store holds the flat-file tables backing the catalog: the
// character table and the account credential table. Both are whole-file
// snapshots: a reader loads every row, a writer rewrites every row.
package store

import (
	"errors"

	"github.com/marvelcat/charstore/pkg/schema"
)

// ErrUnavailable is returned when the backing file cannot be read or
// written. Callers treat it as a storage outage, not a lookup miss.
var ErrUnavailable = errors.New("storage unavailable")

// CharacterTable is the contract for the character catalog's backing
// table. Both the CSV file table and the in-memory table implement it.
//
// LoadAll returns a fresh snapshot; mutating the returned slice does not
// affect the table. SaveAll replaces the table's full contents.
type CharacterTable interface {
	LoadAll() ([]schema.CharacterRecord, error)
	SaveAll(records []schema.CharacterRecord) error
}

// AccountTable is the same contract for account credentials.
type AccountTable interface {
	LoadAll() ([]schema.Account, error)
	SaveAll(accounts []schema.Account) error
}
