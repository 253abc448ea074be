package models

import "time"

// RefreshToken is an opaque, server-stored token rotated on every refresh.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
