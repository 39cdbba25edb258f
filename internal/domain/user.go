package domain

import "time"

// User represents a registered MuuApp account.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Ranches      []Ranch
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
