// Package app wires configuration, storage, and services into the auth core
// consumed by an external UI/session layer.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav630/userhub/internal/auth"
	"github.com/gaurav630/userhub/internal/config"
	"github.com/gaurav630/userhub/internal/logging"
	"github.com/gaurav630/userhub/internal/rbac"
	"github.com/gaurav630/userhub/internal/repositories/repomanager"
	"github.com/gaurav630/userhub/internal/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.Manager
	users   *services.UserService
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	roles, err := rbac.NewTable(cfg.Roles)
	if err != nil {
		return nil, fmt.Errorf("role table error: %w", err)
	}

	m, err := repomanager.NewSQLManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	us := services.NewUserService(m, tokens, roles, logger, cfg)

	return &App{config: cfg, logger: logger, manager: m, users: us}, nil
}

// Users exposes the authentication/authorization core to the caller.
func (a *App) Users() *services.UserService {
	return a.users
}

// Bootstrap brings the store to a usable state: runs migrations, seeds the
// privileged user if absent, and verifies that every persisted role exists
// in the role-permission table. Any failure here must abort startup.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	err := a.users.EnsureBootstrapUser(ctx,
		a.config.BootstrapUsername, a.config.BootstrapEmail, a.config.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("bootstrap error: %w", err)
	}

	if err := a.users.ValidateStoredRoles(ctx); err != nil {
		return err
	}

	a.logger.Info(ctx, "store initialized")

	return nil
}

func (a *App) Close() error {
	return a.manager.Close()
}
