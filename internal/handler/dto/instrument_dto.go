package dto

import (
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/handler/helper"
)

// AnxietyInstrumentResponse - пункты шкалы тревожности и подписи шкалы Лайкерта
type AnxietyInstrumentResponse struct {
	Items []entity.AnxietyItem `json:"items"`
	Scale []string             `json:"scale"` // подпись ответа i+1
}

// TestQuestionResponse - вопрос теста без правильного ответа
type TestQuestionResponse struct {
	ID       int                     `json:"id"`
	Question string                  `json:"question"`
	Options  []helper.QuestionOption `json:"options"`
	Concept  entity.Concept          `json:"concept"`
}

// TestInstrumentResponse - вопросы pre/post-теста
type TestInstrumentResponse struct {
	Kind      entity.TestKind        `json:"kind"`
	Questions []TestQuestionResponse `json:"questions"`
}

// NewTestInstrumentResponse скрывает правильные ответы и объяснения
func NewTestInstrumentResponse(kind entity.TestKind, questions []entity.TestQuestion) TestInstrumentResponse {
	out := make([]TestQuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = TestQuestionResponse{
			ID:       q.ID,
			Question: q.Text,
			Options:  helper.ConvertOptionsToObjects(q.Options),
			Concept:  q.Concept,
		}
	}
	return TestInstrumentResponse{Kind: kind, Questions: out}
}
