package store

import (
	"sync"

	"github.com/marvelcat/charstore/pkg/schema"
)

// MemCharacterTable is a thread-safe in-memory character table. It backs
// tests and the ephemeral no-file mode of the daemon.
type MemCharacterTable struct {
	mu      sync.RWMutex
	records []schema.CharacterRecord
}

// NewMemCharacterTable initializes a table seeded with initial records.
func NewMemCharacterTable(initial []schema.CharacterRecord) *MemCharacterTable {
	t := &MemCharacterTable{}
	t.records = append(t.records, initial...)
	return t
}

// LoadAll returns a copy of the current snapshot so callers can mutate
// freely without racing the table.
func (t *MemCharacterTable) LoadAll() ([]schema.CharacterRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]schema.CharacterRecord, len(t.records))
	copy(out, t.records)
	return out, nil
}

// SaveAll replaces the snapshot by value.
func (t *MemCharacterTable) SaveAll(records []schema.CharacterRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = make([]schema.CharacterRecord, len(records))
	copy(t.records, records)
	return nil
}

// MemAccountTable is the in-memory counterpart of CSVAccountTable.
type MemAccountTable struct {
	mu       sync.RWMutex
	accounts []schema.Account
}

// NewMemAccountTable initializes a table seeded with initial accounts.
func NewMemAccountTable(initial []schema.Account) *MemAccountTable {
	t := &MemAccountTable{}
	t.accounts = append(t.accounts, initial...)
	return t
}

func (t *MemAccountTable) LoadAll() ([]schema.Account, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]schema.Account, len(t.accounts))
	copy(out, t.accounts)
	return out, nil
}

func (t *MemAccountTable) SaveAll(accounts []schema.Account) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accounts = make([]schema.Account, len(accounts))
	copy(t.accounts, accounts)
	return nil
}
