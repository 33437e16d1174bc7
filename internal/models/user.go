// Package models holds the persisted entities owned by the credential store.
package models

import "time"

// User is a persisted account row. PasswordHash is a bcrypt digest; the raw
// secret never reaches this struct.
type User struct {
	ID                  int64
	Username            string
	Email               string
	PasswordHash        string
	Role                string
	IsActive            bool
	FailedLoginAttempts int
	CreatedAt           time.Time
	LastLogin           *time.Time
}
