package store

import (
	"fmt"

	"github.com/ashureev/profnet/internal/config"
)

// Open selects the KV backend named by cfg.StorageBackend.
func Open(cfg *config.Config) (KV, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageSQLite, "":
		return NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
