package bootstrap

import (
	"fmt"

	"hayai/internal/cache"
	"hayai/internal/config"
	"hayai/internal/database"
	"hayai/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDemoAccounts upserts the built-in accounts that occupy the
	// reserved ID range below the registration sequence.
	EnsureDemoAccounts bool
}

// InitRuntime connects to DB and Redis and optionally ensures the
// built-in demo accounts exist.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDemoAccounts {
		if err := seed.EnsureDemoAccounts(db); err != nil {
			return nil, nil, fmt.Errorf("failed to ensure demo accounts: %w", err)
		}
	}

	return db, r, nil
}
