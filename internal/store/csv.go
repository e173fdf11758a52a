package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/marvelcat/charstore/pkg/schema"
)

// CSVCharacterTable persists character records in a single CSV file with
// a fixed header. The Character ID column is always read and written as
// text, even when it looks numeric, so lookups never fail on a silent
// type coercion after a reload.
type CSVCharacterTable struct {
	Path string
}

// NewCSVCharacterTable returns a table backed by the CSV file at path.
func NewCSVCharacterTable(path string) *CSVCharacterTable {
	return &CSVCharacterTable{Path: path}
}

// Init creates the backing file with a header row if it does not exist.
func (t *CSVCharacterTable) Init() error {
	if _, err := os.Stat(t.Path); err == nil {
		return nil
	}
	return t.SaveAll(nil)
}

// LoadAll reads the full table. A missing, unreadable, or malformed file
// yields ErrUnavailable.
func (t *CSVCharacterTable) LoadAll() ([]schema.CharacterRecord, error) {
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
	if len(rows[0]) != len(schema.CharacterColumns) {
		return nil, fmt.Errorf("%w: %s has %d columns, want %d", ErrUnavailable, t.Path, len(rows[0]), len(schema.CharacterColumns))
	}

	records := make([]schema.CharacterRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := schema.CharacterRecord{Name: row[0], ID: row[1]}
		if rec.Events, err = parseIntCell(row[2]); err != nil {
			return nil, fmt.Errorf("%w: %s: bad event count %q", ErrUnavailable, t.Path, row[2])
		}
		if rec.Series, err = parseIntCell(row[3]); err != nil {
			return nil, fmt.Errorf("%w: %s: bad series count %q", ErrUnavailable, t.Path, row[3])
		}
		if rec.Comics, err = parseIntCell(row[4]); err != nil {
			return nil, fmt.Errorf("%w: %s: bad comic count %q", ErrUnavailable, t.Path, row[4])
		}
		if rec.MaxComicPrice, err = parseFloatCell(row[5]); err != nil {
			return nil, fmt.Errorf("%w: %s: bad price %q", ErrUnavailable, t.Path, row[5])
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveAll rewrites the full table. The rows are written to a temporary
// file first and swapped in with an atomic rename, so a crash leaves
// either the old file or the new one, never a truncated mix.
func (t *CSVCharacterTable) SaveAll(records []schema.CharacterRecord) error {
	tempPath := t.Path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrUnavailable, tempPath, err)
	}

	w := csv.NewWriter(f)
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, schema.CharacterColumns)
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Name,
			rec.ID,
			formatIntCell(rec.Events),
			formatIntCell(rec.Series),
			formatIntCell(rec.Comics),
			formatFloatCell(rec.MaxComicPrice),
		})
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

// Empty cells are the storage spelling of "unknown/absent".

func parseIntCell(cell string) (*int, error) {
	if cell == "" {
		return nil, nil
	}
	// Counts can arrive as "3" or, after a float round trip, "3.0".
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	n := int(v)
	return &n, nil
}

func parseFloatCell(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatIntCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
