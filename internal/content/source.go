// Package content содержит статический учебный контент курса и интерфейс
// источника контента, через который к нему обращаются сервисы.
package content

import (
	"context"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// Source отдаёт объяснения, тренировочные задачи и ответы тьютора для пары (тема, уровень).
// Реализации не возвращают ошибок наружу: при сбое они откатываются к статическому банку.
type Source interface {
	Explanation(ctx context.Context, concept entity.Concept, level entity.Level) string
	PracticeQuestions(ctx context.Context, concept entity.Concept, level entity.Level, count int) []entity.PracticeQuestion
	Ask(ctx context.Context, concept entity.Concept, question string) string
}

// ModuleInfo - заголовок и подзаголовок модуля
type ModuleInfo struct {
	Concept     entity.Concept `json:"concept"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
}
