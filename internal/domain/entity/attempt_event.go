package entity

import (
	"time"

	"github.com/google/uuid"
)

// AttemptEvent - запись журнала попыток (телеметрия для исследования).
// Журнал только дополняется; источником истины остаётся файл участника.
type AttemptEvent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParticipantID string    `gorm:"size:32;not null;index:idx_attempt_events_participant,priority:1" json:"participant_id"`
	Concept       Concept   `gorm:"size:32;not null" json:"concept"`
	IsCorrect     bool      `gorm:"not null" json:"is_correct"`
	LevelBefore   Level     `gorm:"size:16;not null" json:"level_before"`
	LevelAfter    Level     `gorm:"size:16;not null" json:"level_after"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (AttemptEvent) TableName() string {
	return "attempt_events"
}
