package database

import (
	"context"
	"fmt"

	"github.com/roam-platform/roam-server/internal/common/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQL implements the Database interface using MySQL
type MySQL struct {
	*store
	cfg *config.DatabaseConfig
}

// NewMySQL creates a new MySQL instance
func NewMySQL(cfg *config.DatabaseConfig) (Database, error) {
	gormDB, err := gorm.Open(mysql.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &MySQL{
		store: &store{db: gormDB},
		cfg:   cfg,
	}, nil
}

// Init migrates the schema
func (db *MySQL) Init(ctx context.Context) error {
	if err := db.migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ApproveAndActivateBusiness uses the optimistic status-guarded update rather
// than a stored routine, keeping the MySQL setup migration-free.
func (db *MySQL) ApproveAndActivateBusiness(ctx context.Context, id string) error {
	return db.approveOptimistic(ctx, id)
}
