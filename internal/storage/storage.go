// Package storage opens the configured backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
	"travel_planner/internal/shared"
	"travel_planner/internal/storage/memory"
	mysqlrepo "travel_planner/internal/storage/mysql"
)

type Backend interface {
	domain.DestinationRepository
	domain.TripRepository
	domain.HealthChecker
	Mode() domain.ViewMode
}

// Open returns the backend named by STORAGE_DRIVER and a close func.
func Open(ctx context.Context, cfg shared.Config) (Backend, func() error, error) {
	switch cfg.StorageDriver {
	case "memory":
		mode := domain.ViewMode(cfg.ViewMode)
		if !mode.Valid() {
			mode = domain.ViewsEvents
		}
		log.Warn().Str("view_mode", string(mode)).Msg("using in-memory storage; data is lost on exit")
		return memory.New(mode), func() error { return nil }, nil

	case "mysql", "":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		mode, err := viewMode(ctx, cfg.ViewMode, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Str("view_mode", string(mode)).Msg("database connection ok")
		return mysqlrepo.New(db, mode), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func viewMode(ctx context.Context, configured string, db *sql.DB) (domain.ViewMode, error) {
	if configured == "" || configured == "auto" {
		return mysqlrepo.DetectViewMode(ctx, db)
	}
	mode := domain.ViewMode(configured)
	if !mode.Valid() {
		return "", fmt.Errorf("unknown VIEW_MODE %q", configured)
	}
	return mode, nil
}
