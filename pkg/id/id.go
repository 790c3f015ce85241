package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. Fills are tagged with one at execution time so
// journal rows stay time-sortable even when many fills share a logical tick.
// ulid.Make draws from a locked monotonic entropy source, so ids generated
// within the same millisecond still sort by generation order.
func New() string {
	return ulid.Make().String()
}
