package profile

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/sipgo/internal/config"
)

// Open builds the store selected by cfg.ProfileStore
func Open(ctx context.Context, cfg *config.AppConfig) (Store, error) {
	switch cfg.ProfileStore {
	case config.StoreMemory, "":
		return NewMemoryStore(), nil
	case config.StoreFile:
		return NewFileStore(cfg.ProfileFilePath)
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.DatabasePath)
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.StoreFirestore:
		return NewFirestoreStore(ctx, cfg.FirestoreProject)
	default:
		return nil, fmt.Errorf("unknown profile store %q", cfg.ProfileStore)
	}
}
