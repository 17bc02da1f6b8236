package models

import "github.com/oklog/ulid/v2"

// NewID returns a lexically sortable identifier for a new record.
func NewID() string {
	return ulid.Make().String()
}

// ShortRef returns the customer-facing reference for an id: its last 8 characters.
func ShortRef(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
