package models

import (
	"encoding/json"
	"time"
)

// Document is one synced item belonging to a user: a character, a preset, or
// the settings singleton. The server treats the payload as opaque JSON; only
// the (collection, id) pair matters for addressing.
type Document struct {
	UserID     string
	Collection string
	ID         string
	Doc        json.RawMessage
	UpdatedAt  time.Time
}
