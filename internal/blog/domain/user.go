package domain

import "time"

// User is an account row. Usernames are case-sensitive and unique; the
// password is stored only as a salted bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
