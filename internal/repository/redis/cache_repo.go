package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
)

// DefaultKeyPrefix отделяет ключи приложения от чужих ключей в общем Redis
const DefaultKeyPrefix = "easynatorics:"

// CacheRepo реализует repository.CacheRepository.
// Все ключи хранятся с префиксом пространства имён.
type CacheRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewCacheRepo создает репозиторий кеша. Пустой prefix заменяется на DefaultKeyPrefix.
func NewCacheRepo(client redis.UniversalClient, prefix string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for CacheRepo")
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CacheRepo{client: client, prefix: prefix}, nil
}

func (r *CacheRepo) key(k string) string {
	return r.prefix + k
}

// Set сохраняет строковое значение
func (r *CacheRepo) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, expiration).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", apperrors.ErrStorage, key, err)
	}
	return nil
}

// Get возвращает значение или apperrors.ErrNotFound
func (r *CacheRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("%w: redis get %s: %v", apperrors.ErrStorage, key, err)
	}
	return val, nil
}

// Delete удаляет ключ; отсутствие ключа не ошибка
func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %v", apperrors.ErrStorage, key, err)
	}
	return nil
}

// SetJSON сериализует значение в JSON
func (r *CacheRepo) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, expiration).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", apperrors.ErrStorage, key, err)
	}
	return nil
}

// GetJSON читает JSON в dest. Нечитаемое значение - apperrors.ErrDeserialization.
func (r *CacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: redis get %s: %v", apperrors.ErrStorage, key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrDeserialization, key, err)
	}
	return nil
}
