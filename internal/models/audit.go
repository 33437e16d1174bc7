package models

import "time"

// AuditEntry is an append-only record of a security-relevant action.
// UserID is nil for events recorded before a user could be identified.
type AuditEntry struct {
	ID        int64
	UserID    *int64
	Action    string
	Timestamp time.Time
	Details   string
}
