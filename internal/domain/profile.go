package domain

import "time"

// Profile mirrors the identity provider's user with the local admin flag.
type Profile struct {
	ID        string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the caller resolved by the admin gate.
type Identity struct {
	ID      string
	Email   string
	IsAdmin bool
}
