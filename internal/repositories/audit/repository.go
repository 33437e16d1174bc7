// Package audit persists the append-only trail of security-relevant
// actions. Entries are never mutated or deleted by the core.
package audit

import (
	"context"
	"time"

	"github.com/gaurav630/userhub/internal/models"
)

type Repository interface {
	// Append records one entry. userID may be nil for events that happen
	// before a user is identified.
	Append(ctx context.Context, userID *int64, action, details string, at time.Time) error

	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error)
}
