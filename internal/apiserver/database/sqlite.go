package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roam-platform/roam-server/internal/common/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// SQLite implements the Database interface using SQLite
type SQLite struct {
	*store
	cfg *config.DatabaseConfig
}

// NewSQLite creates a new SQLite instance
func NewSQLite(cfg *config.DatabaseConfig) (Database, error) {
	if dir := filepath.Dir(cfg.DBName); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(cfg.DBName), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLite{
		store: &store{db: gormDB},
		cfg:   cfg,
	}, nil
}

// Init migrates the schema
func (db *SQLite) Init(ctx context.Context) error {
	if err := db.migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ApproveAndActivateBusiness uses the optimistic status-guarded update; SQLite
// has no stored procedures.
func (db *SQLite) ApproveAndActivateBusiness(ctx context.Context, id string) error {
	return db.approveOptimistic(ctx, id)
}
