package repository

import (
	"context"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// SessionRepository хранит активные сессии по токену
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// Get возвращает apperrors.ErrNotFound для неизвестного или истёкшего токена
	Get(ctx context.Context, token string) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, token string) error
}
