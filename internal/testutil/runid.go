package testutil

// FixedRunID generates the same run ID every time, so repeated command
// invocations in a test produce identical output.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a fixed run ID generator.
//
// If id is empty, Generate() returns DefaultRunID.
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunID{id: id}
}

// DefaultRunID is a valid UUIDv7 used when no ID is given.
const DefaultRunID = "01941f29-7c00-7000-8000-000000000001"

// Generate returns the fixed ID.
//
// Implements runid.Generator.
func (g *FixedRunID) Generate() string {
	return g.id
}
