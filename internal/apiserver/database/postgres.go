package database

import (
	"context"
	"fmt"

	"github.com/roam-platform/roam-server/internal/common/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// approveFunctionSQL installs the stored function behind the core approval
// transition. It locks the row, so two concurrent approvals serialize and a
// duplicate invocation re-asserts the same approved+active state.
const approveFunctionSQL = `
CREATE OR REPLACE FUNCTION approve_and_activate_business(p_business_id uuid)
RETURNS void AS $$
DECLARE
    v_status varchar;
BEGIN
    SELECT verification_status INTO v_status
      FROM business_profiles
     WHERE id = p_business_id
       FOR UPDATE;
    IF NOT FOUND THEN
        RAISE EXCEPTION 'business not found';
    END IF;
    IF v_status = 'rejected' THEN
        RAISE EXCEPTION 'business has been rejected';
    END IF;
    UPDATE business_profiles
       SET verification_status = 'approved',
           is_active = true,
           updated_at = now()
     WHERE id = p_business_id;
END;
$$ LANGUAGE plpgsql;
`

// Postgres implements the Database interface using PostgreSQL
type Postgres struct {
	*store
	cfg *config.DatabaseConfig
}

// NewPostgres creates a new Postgres instance
func NewPostgres(cfg *config.DatabaseConfig) (Database, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Postgres{
		store: &store{db: gormDB},
		cfg:   cfg,
	}, nil
}

// Init migrates the schema and installs the approval stored function
func (db *Postgres) Init(ctx context.Context) error {
	if err := db.migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := db.db.WithContext(ctx).Exec(approveFunctionSQL).Error; err != nil {
		return fmt.Errorf("failed to install approval function: %w", err)
	}
	return nil
}

// ApproveAndActivateBusiness invokes the stored function. The function's own
// error message is returned verbatim; it may encode a business rule such as
// "business has been rejected".
func (db *Postgres) ApproveAndActivateBusiness(ctx context.Context, id string) error {
	return db.db.WithContext(ctx).
		Exec("SELECT approve_and_activate_business(?)", id).Error
}
