package user

import "time"

// User represents a registered marketplace member.
type User struct {
	ID           string
	Name         string
	Email        string
	Address      string
	PasswordHash []byte
	CreatedAt    time.Time
}
