package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionRepo хранит сессии участников в Redis как JSON с TTL до ExpiresAt
type SessionRepo struct {
	cache repository.CacheRepository
	now   func() time.Time
}

// NewSessionRepo создаёт репозиторий сессий поверх CacheRepository
func NewSessionRepo(cache repository.CacheRepository) *SessionRepo {
	return &SessionRepo{cache: cache, now: time.Now}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Create сохраняет новую сессию
func (r *SessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return r.put(ctx, session)
}

// Get возвращает сессию по токену или apperrors.ErrNotFound
func (r *SessionRepo) Get(ctx context.Context, token string) (*entity.Session, error) {
	var session entity.Session
	if err := r.cache.GetJSON(ctx, sessionKey(token), &session); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get session: %v", apperrors.ErrStorage, err)
	}
	return &session, nil
}

// Update перезаписывает сессию, сохраняя исходный срок жизни
func (r *SessionRepo) Update(ctx context.Context, session *entity.Session) error {
	return r.put(ctx, session)
}

// Delete удаляет сессию. Отсутствие ключа ошибкой не считается.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if err := r.cache.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("%w: delete session: %v", apperrors.ErrStorage, err)
	}
	return nil
}

func (r *SessionRepo) put(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return apperrors.ErrNotFound
	}
	if err := r.cache.SetJSON(ctx, sessionKey(session.Token), session, ttl); err != nil {
		return fmt.Errorf("%w: save session: %v", apperrors.ErrStorage, err)
	}
	return nil
}
