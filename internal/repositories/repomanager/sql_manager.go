package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/gaurav630/userhub/internal/dbx"
	"github.com/gaurav630/userhub/internal/migrations"
	"github.com/gaurav630/userhub/internal/repositories/audit"
	"github.com/gaurav630/userhub/internal/repositories/users"
)

type SQLManager struct {
	db      *sql.DB
	dialect string
}

// NewSQLManager opens the database named by dsn. DSNs starting with
// postgres:// or postgresql:// use the pgx driver, anything else is treated
// as a SQLite path.
func NewSQLManager(dsn string) (*SQLManager, error) {
	driver, dialect := "sqlite3", "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, dialect = "pgx", "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent transactions.
		db.SetMaxOpenConns(1)
	}

	return &SQLManager{db: db, dialect: dialect}, nil
}

func (m *SQLManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}

	dir := "postgres"
	if m.dialect == "sqlite3" {
		dir = "sqlite"
	}

	if err := goose.UpContext(ctx, m.db, dir); err != nil {
		return err
	}

	return nil
}

func (m *SQLManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewSQLRepository(db)
}

func (m *SQLManager) Close() error {
	return m.db.Close()
}
