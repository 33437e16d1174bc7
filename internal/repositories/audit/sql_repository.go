package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Append(ctx context.Context, userID *int64, action, details string, at time.Time) error {

	query :=
		`INSERT INTO audit_log (user_id, action, details, timestamp)
         VALUES ($1, $2, $3, $4)
		 `

	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, uid, action, details, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditEntry, error) {

	query :=
		`SELECT id, user_id, action, details, timestamp FROM audit_log
		 ORDER BY id DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		entry := &models.AuditEntry{}
		var uid sql.NullInt64

		if err := rows.Scan(&entry.ID, &uid, &entry.Action, &entry.Details, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if uid.Valid {
			id := uid.Int64
			entry.UserID = &id
		}

		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
