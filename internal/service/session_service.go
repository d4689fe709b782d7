package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

const defaultSessionTTL = 8 * time.Hour

// SessionService выдаёт и хранит сессии участников
type SessionService struct {
	sessions     repository.SessionRepository
	participants repository.ParticipantRepository
	ttl          time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

// NewSessionService создает сервис сессий
func NewSessionService(
	sessions repository.SessionRepository,
	participants repository.ParticipantRepository,
	ttl time.Duration,
	log *logger.Logger,
) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionService{
		sessions:     sessions,
		participants: participants,
		ttl:          ttl,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start открывает сессию для существующего участника.
// Для незарегистрированного ID возвращается apperrors.ErrNotFound.
func (s *SessionService) Start(ctx context.Context, participantID string) (*entity.Session, error) {
	if _, err := s.participants.Load(ctx, participantID); err != nil {
		return nil, err
	}

	now := s.now()
	session := &entity.Session{
		Token:         uuid.NewString(),
		ParticipantID: participantID,
		Practice:      make(map[entity.Concept]*entity.PracticeSet),
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("[SessionService] Session started", "participant_id", participantID)
	return session, nil
}

// Get возвращает активную сессию; неизвестный или истёкший токен - ErrUnauthorized
func (s *SessionService) Get(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: session token is missing", apperrors.ErrUnauthorized)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: session is unknown or expired", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, fmt.Errorf("%w: session is unknown or expired", apperrors.ErrUnauthorized)
	}
	if session.Practice == nil {
		session.Practice = make(map[entity.Concept]*entity.PracticeSet)
	}
	return session, nil
}

// Save сохраняет изменённое состояние сессии
func (s *SessionService) Save(ctx context.Context, session *entity.Session) error {
	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: session is unknown or expired", apperrors.ErrUnauthorized)
		}
		return err
	}
	return nil
}

// End закрывает сессию (logout)
func (s *SessionService) End(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	s.logger.Info("[SessionService] Session ended")
	return nil
}
