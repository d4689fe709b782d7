package repository

import (
	"context"
	"time"
)

// CacheRepository - хранилище ключ-значение с TTL (Redis).
// Get и GetJSON возвращают apperrors.ErrNotFound, если ключа нет.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}
