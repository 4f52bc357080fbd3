// Package storage хранит кредиты, учёт платежей и вклады в виде JSON
// в одном из key-value хранилищ: память, Redis или PostgreSQL.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-ru/backoffice-finance-go/internal/config"
)

// ErrNotFound ключ отсутствует в хранилище
var ErrNotFound = errors.New("storage: not found")

// Store минимальный key-value контракт, общий для всех бэкендов
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys возвращает ключи с заданным префиксом в порядке возрастания
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Open создаёт хранилище по конфигурации
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		return NewMemoryStore(), nil
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	case config.StorePostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StoreBackend)
	}
}
