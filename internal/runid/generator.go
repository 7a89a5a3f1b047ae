package runid

import (
	"github.com/google/uuid"
)

// Generator produces run IDs.
type Generator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID. Run IDs are checked before
// any lookup so a malformed ID is told apart from an unknown one.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
