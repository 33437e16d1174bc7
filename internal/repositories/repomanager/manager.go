// Package repomanager wires the concrete repository implementations to a
// database handle. Repository accessors take a dbx.DBTX so callers can bind
// them either to the shared connection or to an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/repositories/audit"
	"github.com/gaurav630/userhub/internal/repositories/users"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users(db dbx.DBTX) users.Repository
	Audit(db dbx.DBTX) audit.Repository
	Close() error
}
