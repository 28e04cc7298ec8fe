// Package service provides business logic for the application.
package service

import (
	"github.com/oklog/ulid/v2"
)

// newID returns a new ULID string. ulid.Make is safe for concurrent use and
// monotonic within a millisecond.
func newID() string {
	return ulid.Make().String()
}
