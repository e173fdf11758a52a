package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marvelcat/charstore/pkg/schema"
)

func tempTable(t *testing.T) *CSVCharacterTable {
	t.Helper()
	table := NewCSVCharacterTable(filepath.Join(t.TempDir(), "data.csv"))
	require.NoError(t, table.Init())
	return table
}

func TestCharacterTableRoundTrip(t *testing.T) {
	table := tempTable(t)

	records := []schema.CharacterRecord{
		{
			Name:          "Spider-Man",
			ID:            "1009610",
			Events:        schema.Int(38),
			Series:        schema.Int(27),
			Comics:        schema.Int(4043),
			MaxComicPrice: schema.Float(9.99),
		},
		{
			// Nil numerics must survive as nil, not come back as zero.
			Name: "Obscure Hero",
			ID:   "42",
		},
	}
	require.NoError(t, table.SaveAll(records))

	got, err := table.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[0])
	assert.Nil(t, got[1].Events)
	assert.Nil(t, got[1].Series)
	assert.Nil(t, got[1].Comics)
	assert.Nil(t, got[1].MaxComicPrice)
}

func TestCharacterTableIDStaysText(t *testing.T) {
	table := tempTable(t)

	require.NoError(t, table.SaveAll([]schema.CharacterRecord{
		{Name: "Hulk", ID: "0099"},
	}))

	got, err := table.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0099", got[0].ID, "numeric-looking ids must not be coerced")
}

func TestCharacterTableEmpty(t *testing.T) {
	table := tempTable(t)

	got, err := table.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCharacterTableMissingFile(t *testing.T) {
	table := NewCSVCharacterTable(filepath.Join(t.TempDir(), "nope.csv"))

	_, err := table.LoadAll()
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCharacterTableCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("just,two\ncolumns,here\n"), 0644))

	_, err := NewCSVCharacterTable(path).LoadAll()
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCharacterTableFloatCountCell(t *testing.T) {
	table := tempTable(t)
	path := table.Path

	// A count cell written as "3.0" still loads as 3.
	content := "Character Name,Character ID,Total Available Events,Total Available Series,Total Available Comics,Price of the Most Expensive Comic\n" +
		"Thor,1009664,3.0,5,12,4.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := table.LoadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Events)
	assert.Equal(t, 3, *got[0].Events)
}

func TestAccountTableRoundTrip(t *testing.T) {
	table := NewCSVAccountTable(filepath.Join(t.TempDir(), "users.csv"))
	require.NoError(t, table.Init())

	accounts := []schema.Account{
		{ID: "u1", Email: "a@example.com", PasswordHash: "$2a$10$hash"},
	}
	require.NoError(t, table.SaveAll(accounts))

	got, err := table.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, accounts, got)
}

func TestMemCharacterTableSnapshotIsolation(t *testing.T) {
	table := NewMemCharacterTable([]schema.CharacterRecord{
		{Name: "Hulk", ID: "1"},
	})

	got, err := table.LoadAll()
	require.NoError(t, err)
	got[0].Name = "mutated"

	again, err := table.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, "Hulk", again[0].Name, "LoadAll must return a copy")
}
