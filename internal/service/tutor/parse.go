package tutor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

type questionsPayload struct {
	Questions []entity.PracticeQuestion `json:"questions"`
}

// stripCodeFence убирает обёртку ```json ... ``` вокруг ответа модели
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "```json"); i >= 0 {
			s = s[i:]
		} else {
			return s
		}
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// parseQuestions разбирает ответ модели и оставляет только корректные задачи
func parseQuestions(raw string) ([]entity.PracticeQuestion, error) {
	var payload questionsPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("decode generated questions: %w", err)
	}

	valid := make([]entity.PracticeQuestion, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		q.Text = strings.TrimSpace(q.Text)
		q.Answer = strings.TrimSpace(q.Answer)
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid questions in generated payload (%d received)", len(payload.Questions))
	}
	return valid, nil
}
