package domain

import "time"

// Ranch is a property owned by a user. Ranches are only loaded when a single
// user is fetched.
type Ranch struct {
	ID        string
	UserID    string
	Name      string
	Location  string
	CreatedAt time.Time
}
