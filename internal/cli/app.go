// Package cli wires the elevator dataset commands.
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
)

// App carries the dependencies shared by the commands once the root
// flags are parsed.
type App struct {
	Config *config.Config
	Logger *logging.Logger
}

func (a *App) init(envFile, configFile string) error {
	cfg, err := config.LoadConfig(envFile, configFile)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Logger = logging.NewLoggerWith(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	return nil
}

// connect opens the pgx pool and verifies the database is reachable.
// The caller owns the pool and must Close it.
func (a *App) connect(ctx context.Context) (*pgxpool.Pool, error) {
	a.Logger.Debug("Initializing database connection")

	poolConfig, err := pgxpool.ParseConfig(a.Config.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func (a *App) loadProfile() (*config.BuildingProfile, error) {
	return config.LoadProfile(a.Config.Profile.Path)
}
