package domain

import "time"

// DemoAccount is a locally authenticated account used for demos and
// development. Passwords are stored as bcrypt hashes only.
type DemoAccount struct {
	User         User
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
