package repository

import (
	"context"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// ParticipantRepository - долговременное хранилище записей участников,
// одна единица хранения на участника.
//
// Ошибки: apperrors.ErrNotFound (записи нет - штатная ситуация),
// apperrors.ErrStorage (сбой записи/чтения), apperrors.ErrDeserialization
// (запись повреждена).
type ParticipantRepository interface {
	// Create выделяет новый ID, сохраняет пустую запись и возвращает ID.
	// При ошибке ID не считается выделенным.
	Create(ctx context.Context, demographics entity.Demographics) (string, error)
	Load(ctx context.Context, id string) (*entity.ParticipantRecord, error)
	// Save атомарно перезаписывает запись целиком, обновляя LastUpdated.
	Save(ctx context.Context, id string, record *entity.ParticipantRecord) error
	// ListAll возвращает все читаемые записи; повреждённые пропускаются.
	ListAll(ctx context.Context) (map[string]*entity.ParticipantRecord, error)
}
