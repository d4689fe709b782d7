package repository

import (
	"context"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// AttemptEventRepository - журнал попыток решения задач
type AttemptEventRepository interface {
	Record(ctx context.Context, event *entity.AttemptEvent) error
	ListByParticipant(ctx context.Context, participantID string) ([]entity.AttemptEvent, error)
}
