package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
)

// AttemptEventRepo реализует repository.AttemptEventRepository
type AttemptEventRepo struct {
	db *gorm.DB
}

// NewAttemptEventRepo создает новый репозиторий журнала попыток
func NewAttemptEventRepo(db *gorm.DB) *AttemptEventRepo {
	return &AttemptEventRepo{db: db}
}

// Record добавляет событие в журнал. ID и время заполняются, если не заданы.
func (r *AttemptEventRepo) Record(ctx context.Context, event *entity.AttemptEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("%w: record attempt event: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// ListByParticipant возвращает события участника в хронологическом порядке
func (r *AttemptEventRepo) ListByParticipant(ctx context.Context, participantID string) ([]entity.AttemptEvent, error) {
	var events []entity.AttemptEvent
	err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Order("created_at").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list attempt events: %v", apperrors.ErrStorage, err)
	}
	return events, nil
}

// NoOpAttemptEventRepo используется, когда база данных отключена
type NoOpAttemptEventRepo struct{}

// Record ничего не делает
func (NoOpAttemptEventRepo) Record(ctx context.Context, event *entity.AttemptEvent) error {
	return nil
}

// ListByParticipant всегда возвращает пустой список
func (NoOpAttemptEventRepo) ListByParticipant(ctx context.Context, participantID string) ([]entity.AttemptEvent, error) {
	return []entity.AttemptEvent{}, nil
}
