package domain

import "time"

// User is a registered account. Email is expected to be unique but nothing
// enforces it.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// DisplayName is the name shown for the user once a session exists.
func (u User) DisplayName() string {
	return u.FirstName
}
