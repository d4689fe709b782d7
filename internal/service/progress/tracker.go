// Package progress содержит правила учёта попыток и адаптивного уровня.
// Все операции работают над записью в памяти и не выполняют ввода-вывода;
// сохранять изменённую запись должен вызывающий код.
package progress

import (
	"time"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// Tracker применяет попытки и завершение модулей к записи участника
type Tracker struct {
	config *LevelConfig
}

// NewTracker создаёт трекер. nil-конфигурация заменяется значениями по умолчанию.
func NewTracker(config *LevelConfig) *Tracker {
	if config == nil {
		config = DefaultLevelConfig()
	}
	return &Tracker{config: config}
}

// RecordAttempt учитывает одну решённую задачу и пересчитывает уровень темы
// по накопленным счётчикам. Уровень только повышается.
// Неизвестная тема оставляет запись без изменений.
func (t *Tracker) RecordAttempt(record *entity.ParticipantRecord, concept entity.Concept, isCorrect bool) *entity.ParticipantRecord {
	if record == nil || !concept.Valid() {
		return record
	}
	ensureMaps(record)

	record.LearningProgress.ProblemsAttempted++
	if isCorrect {
		record.LearningProgress.ProblemsCorrect++
	}

	perf := record.AdaptiveLearning.PerformanceHistory[concept]
	perf.Attempts++
	if isCorrect {
		perf.Correct++
	}
	record.AdaptiveLearning.PerformanceHistory[concept] = perf

	current := t.CurrentLevel(record, concept)
	if target := t.config.TargetLevel(perf); target.Rank() > current.Rank() {
		record.AdaptiveLearning.CurrentLevels[concept] = target
	}
	return record
}

// CompleteModule отмечает модуль завершённым. Повторный вызов ничего не меняет,
// время первого завершения сохраняется.
func (t *Tracker) CompleteModule(record *entity.ParticipantRecord, concept entity.Concept, now time.Time) *entity.ParticipantRecord {
	if record == nil || !concept.Valid() {
		return record
	}
	ensureMaps(record)

	if record.LearningProgress.ModuleProgress[concept].Completed {
		return record
	}
	completedAt := now
	record.LearningProgress.ModuleProgress[concept] = entity.ModuleProgress{
		Completed:   true,
		CompletedAt: &completedAt,
	}
	return record
}

// CurrentLevel возвращает уровень темы; для неизвестной темы или пустой записи - beginner
func (t *Tracker) CurrentLevel(record *entity.ParticipantRecord, concept entity.Concept) entity.Level {
	if record == nil || !concept.Valid() {
		return entity.LevelBeginner
	}
	level, ok := record.AdaptiveLearning.CurrentLevels[concept]
	if !ok || !level.Valid() {
		return entity.LevelBeginner
	}
	return level
}

// Accuracy возвращает долю верных ответов по теме (0, если попыток не было)
func (t *Tracker) Accuracy(record *entity.ParticipantRecord, concept entity.Concept) float64 {
	if record == nil {
		return 0
	}
	perf := record.AdaptiveLearning.PerformanceHistory[concept]
	if perf.Attempts == 0 {
		return 0
	}
	return float64(perf.Correct) / float64(perf.Attempts)
}

func ensureMaps(record *entity.ParticipantRecord) {
	if record.LearningProgress.ModuleProgress == nil {
		record.LearningProgress.ModuleProgress = make(map[entity.Concept]entity.ModuleProgress)
	}
	if record.AdaptiveLearning.CurrentLevels == nil {
		record.AdaptiveLearning.CurrentLevels = make(map[entity.Concept]entity.Level)
	}
	if record.AdaptiveLearning.PerformanceHistory == nil {
		record.AdaptiveLearning.PerformanceHistory = make(map[entity.Concept]entity.Performance)
	}
}
