package types

import "time"

// User represents a person whose exercises are tracked.
type User struct {
	// ID is the opaque identifier assigned by the store on creation.
	ID string `json:"id" db:"id"`

	// Username is the name supplied when the user was created.
	// It is not required to be unique.
	Username string `json:"username" db:"username"`

	// CreatedAt is the timestamp when the user was stored.
	// It is kept for auditing and never exposed in API responses.
	CreatedAt time.Time `json:"-" db:"created_at"`
}
