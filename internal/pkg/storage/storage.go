// internal/pkg/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/oxaDeveloper/e-commerce-task/internal/config"
)

// Keys for the gateway's persisted local state. The names are part of the
// persisted format and survive releases; do not rename.
const (
	KeyToken         = "authToken"
	KeyLastEmail     = "lastKnownEmail"
	KeyLastRole      = "lastKnownRole"
	KeyDeveloperMode = "developerMode"
	KeyCart          = "ecommerce_cart"
)

// ErrNotFound is returned when a key has no persisted value.
var ErrNotFound = errors.New("storage: key not found")

// Store is durable local key-value storage. It is the authoritative snapshot
// of token, last-known identity, developer-mode flag and cart ledger across
// process restarts.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the store selected by configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "file":
		return NewFileStore(cfg.Storage.FilePath)
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
