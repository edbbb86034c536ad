package logging

import (
	"github.com/oklog/ulid/v2"
)

// GenerateRunID returns a new run identifier. ULIDs sort by creation time,
// so run log file names list in run order.
func GenerateRunID() string {
	return ulid.Make().String()
}
