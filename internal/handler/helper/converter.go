package helper

import (
	"fmt"
	"strconv"
	"strings"
)

// QuestionOption представляет вариант ответа для фронтенда
type QuestionOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ConvertOptionsToObjects преобразует массив строк в массив объектов с id и text.
// Ответ участник отправляет текстом варианта, id нужен только для отрисовки.
func ConvertOptionsToObjects(options []string) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		converted[i] = QuestionOption{ID: i, Text: opt}
	}
	return converted
}

// ConvertAnswerKeys переводит ключи JSON-объекта ответов ("1", "2", ...) в ID вопросов
func ConvertAnswerKeys(answers map[string]string) (map[int]string, error) {
	converted := make(map[int]string, len(answers))
	for key, answer := range answers {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid question id %q", key)
		}
		converted[id] = answer
	}
	return converted, nil
}

// FormatFloat форматирует необязательное число для экспорта (пусто, если значения нет)
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// FormatInt форматирует необязательное целое для экспорта
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
