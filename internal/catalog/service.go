// Package catalog implements the catalog service: lookup, uniqueness
// enforcement, multi-key filtering, manual and enriched creation, bulk
// deletion, and price conversion over the character table.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/marvelcat/charstore/internal/enrich"
	"github.com/marvelcat/charstore/internal/store"
	"github.com/marvelcat/charstore/pkg/schema"
)

// Enricher materializes character data from the external metadata and
// comics/pricing APIs. The production implementation is enrich.Client.
type Enricher interface {
	Character(ctx context.Context, id string) (enrich.CharacterSummary, error)
	ComicPrices(ctx context.Context, id string) ([]float64, error)
}

// Converter converts an amount between two currencies. The production
// implementation is exchange.Client.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount float64) (float64, error)
}

// ManualFields are the client-supplied values for a manual create. All
// five must be present together; the API layer rejects partial sets
// before the service runs.
type ManualFields struct {
	Name          string
	Events        int
	Series        int
	Comics        int
	MaxComicPrice float64
}

// Service orchestrates catalog operations over the character table.
// Every operation loads a fresh snapshot, mutates it in memory, and
// writes the full snapshot back before returning. There is no
// cross-request cache and no cross-request locking: concurrent mutations
// race last-writer-wins, the same model the backing file imposes.
type Service struct {
	table     store.CharacterTable
	enricher  Enricher
	converter Converter
	log       zerolog.Logger
}

// NewService wires a catalog service.
func NewService(table store.CharacterTable, e Enricher, c Converter, log zerolog.Logger) *Service {
	return &Service{table: table, enricher: e, converter: c, log: log}
}

func byID(rec schema.CharacterRecord) string   { return rec.ID }
func byName(rec schema.CharacterRecord) string { return rec.Name }

// List returns records selected by the given filters.
//
// With no filters it returns the whole table. Each non-empty filter is
// validated in full: if any requested value is absent, List fails with a
// NotFoundError naming exactly the absent subset rather than returning a
// silent partial match. With both filters present the result is the
// id-match group followed by the name-match group, undeduplicated.
func (s *Service) List(ids, names []string) ([]schema.CharacterRecord, error) {
	records, err := s.table.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && len(names) == 0 {
		return records, nil
	}

	var out []schema.CharacterRecord
	if len(ids) > 0 {
		group, err := matchGroup(records, ids, byID, "Character ID")
		if err != nil {
			return nil, err
		}
		out = append(out, group...)
	}
	if len(names) > 0 {
		group, err := matchGroup(records, names, byName, "Character Name")
		if err != nil {
			return nil, err
		}
		out = append(out, group...)
	}
	return out, nil
}

// Create inserts a new record under id. With manual fields it inserts
// them verbatim; without, it materializes the record from the upstream
// metadata and pricing APIs. Returns the inserted record.
func (s *Service) Create(ctx context.Context, id string, manual *ManualFields) ([]schema.CharacterRecord, error) {
	records, err := s.table.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return nil, &ConflictError{ID: id}
		}
	}

	var rec schema.CharacterRecord
	if manual != nil {
		rec = schema.CharacterRecord{
			Name:          manual.Name,
			ID:            id,
			Events:        schema.Int(manual.Events),
			Series:        schema.Int(manual.Series),
			Comics:        schema.Int(manual.Comics),
			MaxComicPrice: schema.Float(manual.MaxComicPrice),
		}
	} else {
		rec, err = s.enrichCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	records = append(records, rec)
	if err := s.table.SaveAll(records); err != nil {
		return nil, err
	}
	return []schema.CharacterRecord{rec}, nil
}

// enrichCharacter builds a record for id from the upstream APIs. Counts
// and prices reported as exactly zero are stored as nil: upstream uses
// zero to mean "nothing available", which the catalog records as
// unknown/absent rather than a literal 0.
func (s *Service) enrichCharacter(ctx context.Context, id string) (schema.CharacterRecord, error) {
	sum, err := s.enricher.Character(ctx, id)
	if errors.Is(err, enrich.ErrCharacterNotFound) {
		return schema.CharacterRecord{}, &NotFoundError{Field: "Character ID", Missing: []string{id}}
	}
	if err != nil {
		return schema.CharacterRecord{}, &UpstreamError{Provider: "marvel", Err: err}
	}

	rec := schema.CharacterRecord{Name: sum.Name, ID: id}
	if sum.Events != 0 {
		rec.Events = schema.Int(sum.Events)
	}
	if sum.Series != 0 {
		rec.Series = schema.Int(sum.Series)
	}
	if sum.Comics != 0 {
		rec.Comics = schema.Int(sum.Comics)

		prices, err := s.enricher.ComicPrices(ctx, id)
		if err != nil {
			return schema.CharacterRecord{}, &UpstreamError{Provider: "marvel", Err: err}
		}
		if max, ok := maxPrice(prices); ok && max != 0 {
			rec.MaxComicPrice = schema.Float(max)
		}
	}

	s.log.Info().Str("character_id", id).Str("name", rec.Name).Msg("enriched character from upstream")
	return rec, nil
}

// Delete removes all records matching the given filters and returns the
// remaining table.
//
// Filters are applied one at a time, name filter first, and each
// filter's removal is persisted before the next filter is validated, so
// the second filter sees the post-removal table. A filter naming any
// absent value fails without applying its removal, but a prior filter's
// persisted removal stands.
func (s *Service) Delete(ids, names []string) ([]schema.CharacterRecord, error) {
	if len(ids) == 0 && len(names) == 0 {
		return nil, fmt.Errorf("%w: missing characterId or characterName filter", ErrInvalidInput)
	}

	records, err := s.table.LoadAll()
	if err != nil {
		return nil, err
	}

	if len(names) > 0 {
		records, err = s.removeGroup(records, names, byName, "Character Name")
		if err != nil {
			return nil, err
		}
	}
	if len(ids) > 0 {
		records, err = s.removeGroup(records, ids, byID, "Character ID")
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ConvertPrice converts the max comic price of the record matching id
// and/or name from one currency to another and returns the full table.
// The name path runs first, then the id path, each against a freshly
// reloaded table.
func (s *Service) ConvertPrice(ctx context.Context, id, name, from, to string) ([]schema.CharacterRecord, error) {
	if id == "" && name == "" {
		return nil, fmt.Errorf("%w: missing characterId or characterName", ErrInvalidInput)
	}

	if name != "" {
		if err := s.convertBy(ctx, byName, "Character Name", name, from, to); err != nil {
			return nil, err
		}
	}
	if id != "" {
		if err := s.convertBy(ctx, byID, "Character ID", id, from, to); err != nil {
			return nil, err
		}
	}
	return s.table.LoadAll()
}

func (s *Service) convertBy(ctx context.Context, key func(schema.CharacterRecord) string, field, value, from, to string) error {
	records, err := s.table.LoadAll()
	if err != nil {
		return err
	}

	idx := -1
	for i, rec := range records {
		if key(rec) == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFoundError{Field: field, Missing: []string{value}}
	}

	var amount float64
	if records[idx].MaxComicPrice != nil {
		amount = *records[idx].MaxComicPrice
	}
	converted, err := s.converter.Convert(ctx, from, to, amount)
	if err != nil {
		return &UpstreamError{Provider: "exchange", Err: err}
	}

	records[idx].MaxComicPrice = schema.Float(round2(converted))
	if err := s.table.SaveAll(records); err != nil {
		return err
	}

	s.log.Info().Str(field, value).Str("from", from).Str("to", to).
		Float64("amount", amount).Float64("converted", round2(converted)).
		Msg("converted character price")
	return nil
}

// removeGroup validates that every wanted value is present, removes all
// matching records, and persists the remainder.
func (s *Service) removeGroup(records []schema.CharacterRecord, wanted []string, key func(schema.CharacterRecord) string, field string) ([]schema.CharacterRecord, error) {
	if missing := missingValues(records, wanted, key); len(missing) > 0 {
		return nil, &NotFoundError{Field: field, Missing: missing}
	}

	wantedSet := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		wantedSet[w] = true
	}
	remaining := records[:0:0]
	for _, rec := range records {
		if !wantedSet[key(rec)] {
			remaining = append(remaining, rec)
		}
	}
	if err := s.table.SaveAll(remaining); err != nil {
		return nil, err
	}

	s.log.Info().Str("filter", field).Int("removed", len(records)-len(remaining)).Msg("deleted characters")
	return remaining, nil
}

// matchGroup returns all records whose key is in wanted, in table order,
// or a NotFoundError naming the absent subset.
func matchGroup(records []schema.CharacterRecord, wanted []string, key func(schema.CharacterRecord) string, field string) ([]schema.CharacterRecord, error) {
	if missing := missingValues(records, wanted, key); len(missing) > 0 {
		return nil, &NotFoundError{Field: field, Missing: missing}
	}

	wantedSet := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		wantedSet[w] = true
	}
	var out []schema.CharacterRecord
	for _, rec := range records {
		if wantedSet[key(rec)] {
			out = append(out, rec)
		}
	}
	return out, nil
}

// missingValues computes the set difference wanted minus present,
// preserving request order, without duplicates.
func missingValues(records []schema.CharacterRecord, wanted []string, key func(schema.CharacterRecord) string) []string {
	present := make(map[string]bool, len(records))
	for _, rec := range records {
		present[key(rec)] = true
	}

	var missing []string
	seen := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		if !present[w] && !seen[w] {
			missing = append(missing, w)
			seen[w] = true
		}
	}
	return missing
}

func maxPrice(prices []float64) (float64, bool) {
	if len(prices) == 0 {
		return 0, false
	}
	max := prices[0]
	for _, p := range prices[1:] {
		if p > max {
			max = p
		}
	}
	return max, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
