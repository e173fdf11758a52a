// Package schema defines the wire and storage types shared across the
// charstore service, its HTTP API, and the client SDK.
package schema

// CharacterRecord is one row of the character catalog.
//
// The JSON keys deliberately match the storage column names, so the API
// payloads and the backing file speak the same vocabulary. Numeric fields
// are pointers: nil means "unknown/absent", which is distinct from zero
// and survives a round trip through storage as an empty cell.
type CharacterRecord struct {
	Name          string   `json:"Character Name"`
	ID            string   `json:"Character ID"`
	Events        *int     `json:"Total Available Events"`
	Series        *int     `json:"Total Available Series"`
	Comics        *int     `json:"Total Available Comics"`
	MaxComicPrice *float64 `json:"Price of the Most Expensive Comic"`
}

// CharacterColumns is the canonical column order of the character table.
var CharacterColumns = []string{
	"Character Name",
	"Character ID",
	"Total Available Events",
	"Total Available Series",
	"Total Available Comics",
	"Price of the Most Expensive Comic",
}

// Int returns a pointer to v. Convenience for building records.
func Int(v int) *int { return &v }

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 { return &v }
