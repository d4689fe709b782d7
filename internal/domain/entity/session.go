package entity

import "time"

// PracticeResult - итог проверки одной тренировочной задачи
type PracticeResult struct {
	Correct bool `json:"correct"`
}

// PracticeSet - набор задач, выданный участнику по теме в рамках сессии
type PracticeSet struct {
	Level     Level              `json:"level"`
	Questions []PracticeQuestion `json:"questions"`
	Answers   []string           `json:"answers"`
	Results   []*PracticeResult  `json:"results"` // nil - задача ещё не проверялась
}

// NewPracticeSet создаёт набор без ответов
func NewPracticeSet(level Level, questions []PracticeQuestion) *PracticeSet {
	return &PracticeSet{
		Level:     level,
		Questions: questions,
		Answers:   make([]string, len(questions)),
		Results:   make([]*PracticeResult, len(questions)),
	}
}

// ResetAnswers сбрасывает ответы, задачи остаются прежними
func (p *PracticeSet) ResetAnswers() {
	p.Answers = make([]string, len(p.Questions))
	p.Results = make([]*PracticeResult, len(p.Questions))
}

// Session - состояние активной сессии участника, адресуется токеном
type Session struct {
	Token         string                   `json:"token"`
	ParticipantID string                   `json:"participant_id"`
	Practice      map[Concept]*PracticeSet `json:"practice"`
	CreatedAt     time.Time                `json:"created_at"`
	ExpiresAt     time.Time                `json:"expires_at"`
}

// Expired сообщает, истекла ли сессия к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
