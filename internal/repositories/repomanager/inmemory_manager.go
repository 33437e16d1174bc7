package repomanager

import (
	"context"
	"database/sql"

	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/repositories/audit"
	"github.com/gaurav630/userhub/internal/repositories/users"
)

// InMemoryManager backs the services with the in-memory repositories. It has
// no *sql.DB, so callers receive the shared repositories regardless of the
// handle they pass.
type InMemoryManager struct {
	users *users.InMemoryRepository
	audit *audit.InMemoryRepository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		users: users.NewInMemoryRepository(),
		audit: audit.NewInMemoryRepository(),
	}
}

func (m *InMemoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryManager) Audit(db dbx.DBTX) audit.Repository {
	return m.audit
}

func (m *InMemoryManager) Close() error {
	return nil
}
