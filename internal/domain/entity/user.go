package entity

import "time"

// User is an API account. Credentials live here; authorization is a plain
// active/inactive switch plus the admin flag.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
}
