// Package memory содержит хранилища в памяти процесса, используемые,
// когда Redis не настроен.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

// SessionRepo хранит сессии в map. Значения хранятся как JSON, чтобы
// вызывающий код не мог изменить сохранённую сессию в обход Update.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	expires  map[string]time.Time
	now      func() time.Time
	logger   *logger.Logger
}

// NewSessionRepo создаёт пустое хранилище
func NewSessionRepo(log *logger.Logger) *SessionRepo {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionRepo{
		sessions: make(map[string][]byte),
		expires:  make(map[string]time.Time),
		now:      time.Now,
		logger:   log,
	}
}

// Create сохраняет новую сессию
func (r *SessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return r.put(session)
}

// Get возвращает копию сессии; истёкшая сессия считается отсутствующей
func (r *SessionRepo) Get(ctx context.Context, token string) (*entity.Session, error) {
	r.mu.RLock()
	data, ok := r.sessions[token]
	expiresAt := r.expires[token]
	r.mu.RUnlock()

	if !ok || !r.now().Before(expiresAt) {
		return nil, apperrors.ErrNotFound
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", apperrors.ErrDeserialization, err)
	}
	return &session, nil
}

// Update перезаписывает существующую сессию
func (r *SessionRepo) Update(ctx context.Context, session *entity.Session) error {
	r.mu.RLock()
	_, ok := r.sessions[session.Token]
	r.mu.RUnlock()
	if !ok {
		return apperrors.ErrNotFound
	}
	return r.put(session)
}

// Delete удаляет сессию
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	delete(r.expires, token)
	r.mu.Unlock()
	return nil
}

// Sweep удаляет истёкшие сессии и возвращает их количество.
// Вызывается периодически планировщиком.
func (r *SessionRepo) Sweep() int {
	now := r.now()
	removed := 0

	r.mu.Lock()
	for token, expiresAt := range r.expires {
		if !now.Before(expiresAt) {
			delete(r.sessions, token)
			delete(r.expires, token)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("[SessionRepo] Expired sessions removed", "count", removed)
	}
	return removed
}

// Len возвращает число хранимых сессий (включая ещё не удалённые истёкшие)
func (r *SessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRepo) put(session *entity.Session) error {
	if !r.now().Before(session.ExpiresAt) {
		return apperrors.ErrNotFound
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", apperrors.ErrStorage, err)
	}
	r.mu.Lock()
	r.sessions[session.Token] = data
	r.expires[session.Token] = session.ExpiresAt
	r.mu.Unlock()
	return nil
}
