package ledger

import (
	"fmt"

	"github.com/roam-platform/roam-server/internal/common/config"
)

// NewStore creates a ledger based on configuration
func NewStore(cfg *config.ApprovalConfig, redisCfg *config.RedisConfig) (Store, error) {
	switch cfg.LedgerType {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(redisCfg.Addr, redisCfg.Username, redisCfg.Password, redisCfg.DB, redisCfg.Prefix)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", cfg.LedgerType)
	}
}
