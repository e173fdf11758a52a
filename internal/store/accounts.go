package store

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/marvelcat/charstore/pkg/schema"
)

// CSVAccountTable persists account credentials in a CSV file, parallel
// to the character table but with its own header.
type CSVAccountTable struct {
	Path string
}

// NewCSVAccountTable returns a table backed by the CSV file at path.
func NewCSVAccountTable(path string) *CSVAccountTable {
	return &CSVAccountTable{Path: path}
}

// Init creates the backing file with a header row if it does not exist.
func (t *CSVAccountTable) Init() error {
	if _, err := os.Stat(t.Path); err == nil {
		return nil
	}
	return t.SaveAll(nil)
}

// LoadAll reads the full credential table.
func (t *CSVAccountTable) LoadAll() ([]schema.Account, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, t.Path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, t.Path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrUnavailable, t.Path)
	}

	accounts := make([]schema.Account, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(schema.AccountColumns) {
			return nil, fmt.Errorf("%w: %s has a malformed row", ErrUnavailable, t.Path)
		}
		accounts = append(accounts, schema.Account{
			ID:           row[0],
			Email:        row[1],
			PasswordHash: row[2],
		})
	}
	return accounts, nil
}

// SaveAll rewrites the full credential table via temp file + rename.
func (t *CSVAccountTable) SaveAll(accounts []schema.Account) error {
	tempPath := t.Path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrUnavailable, tempPath, err)
	}

	w := csv.NewWriter(f)
	rows := make([][]string, 0, len(accounts)+1)
	rows = append(rows, schema.AccountColumns)
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Email, a.PasswordHash})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, tempPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrUnavailable, tempPath, err)
	}
	if err := os.Rename(tempPath, t.Path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, tempPath, err)
	}
	return nil
}
