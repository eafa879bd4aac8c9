package store

import "errors"

// ErrNotFound is returned when a referenced user or exercise does not exist.
// Malformed identifiers are reported as ErrNotFound too.
var ErrNotFound = errors.New("not found")
