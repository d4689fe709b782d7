package dto

import (
	"math"
	"time"

	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// RegisterRequest - анкета участника и согласие на исследование
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Grade      string `json:"grade" binding:"required"`
	Age        int    `json:"age" binding:"required"`
	Experience string `json:"experience" binding:"required"`
	Consent    bool   `json:"consent"`
}

// Demographics преобразует запрос в анкету домена
func (r RegisterRequest) Demographics() entity.Demographics {
	return entity.Demographics{
		Name:       r.Name,
		Grade:      r.Grade,
		Age:        r.Age,
		Experience: r.Experience,
	}
}

// StartSessionRequest - вход по ID участника
type StartSessionRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

// SessionResponse - выданная сессия
type SessionResponse struct {
	Token         string    `json:"token"`
	ParticipantID string    `json:"participant_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewSessionResponse создаёт ответ из сессии
func NewSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{Token: s.Token, ParticipantID: s.ParticipantID, ExpiresAt: s.ExpiresAt}
}

// RegisterResponse - запись нового участника и сессия для продолжения
type RegisterResponse struct {
	Participant ParticipantResponse `json:"participant"`
	Session     SessionResponse     `json:"session"`
}

// StageStatus - какие этапы исследования пройдены
type StageStatus struct {
	AnxietyPre       bool `json:"anxiety_pre"`
	PreTest          bool `json:"pre_test"`
	CompletedModules int  `json:"completed_modules"`
	PostTestUnlocked bool `json:"post_test_unlocked"`
	PostTest         bool `json:"post_test"`
	AnxietyPost      bool `json:"anxiety_post"`
	Testimonial      bool `json:"testimonial"`
}

// PersonalResults - итоги участника: рост балла, снижение тревожности, точность.
// Рост и снижение заполняются, только когда есть обе фазы.
type PersonalResults struct {
	ScoreImprovement *int     `json:"score_improvement"`
	AnxietyDecrease  *float64 `json:"anxiety_decrease"`
	// Accuracy - доля верных задач в процентах (0, если задач не было)
	Accuracy float64 `json:"accuracy"`
}

// NewPersonalResults считает итоги по записи
func NewPersonalResults(r *entity.ParticipantRecord) PersonalResults {
	var res PersonalResults
	if r.PreTest.Score != nil && r.PostTest.Score != nil {
		improvement := *r.PostTest.Score - *r.PreTest.Score
		res.ScoreImprovement = &improvement
	}
	if r.AnxietySurvey.PreScore != nil && r.AnxietySurvey.PostScore != nil {
		decrease := roundTenth(*r.AnxietySurvey.PreScore - *r.AnxietySurvey.PostScore)
		res.AnxietyDecrease = &decrease
	}
	if attempted := r.LearningProgress.ProblemsAttempted; attempted > 0 {
		res.Accuracy = roundTenth(float64(r.LearningProgress.ProblemsCorrect) / float64(attempted) * 100)
	}
	return res
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParticipantResponse - запись участника для самого участника
type ParticipantResponse struct {
	ParticipantID    string                                `json:"participant_id"`
	Demographics     entity.Demographics                   `json:"demographics"`
	PreTestScore     *int                                  `json:"pre_test_score"`
	PostTestScore    *int                                  `json:"post_test_score"`
	AnxietyPreScore  *float64                              `json:"anxiety_pre_score"`
	AnxietyPostScore *float64                              `json:"anxiety_post_score"`
	Progress         entity.LearningProgress               `json:"learning_progress"`
	Levels           map[entity.Concept]entity.Level       `json:"current_levels"`
	Performance      map[entity.Concept]entity.Performance `json:"performance_history"`
	Stages           StageStatus                           `json:"stages"`
	Results          PersonalResults                       `json:"results"`
	RegisteredAt     time.Time                             `json:"registration_time"`
	LastUpdated      time.Time                             `json:"last_updated"`
}

// NewParticipantResponse создаёт ответ из записи. minModules - порог открытия post-теста.
func NewParticipantResponse(r *entity.ParticipantRecord, minModules int) ParticipantResponse {
	completed := r.CompletedModules()
	return ParticipantResponse{
		ParticipantID:    r.ID,
		Demographics:     r.Demographics,
		PreTestScore:     r.PreTest.Score,
		PostTestScore:    r.PostTest.Score,
		AnxietyPreScore:  r.AnxietySurvey.PreScore,
		AnxietyPostScore: r.AnxietySurvey.PostScore,
		Progress:         r.LearningProgress,
		Levels:           r.AdaptiveLearning.CurrentLevels,
		Performance:      r.AdaptiveLearning.PerformanceHistory,
		Stages: StageStatus{
			AnxietyPre:       r.AnxietySurvey.PreScore != nil,
			PreTest:          r.PreTest.Submitted(),
			CompletedModules: completed,
			PostTestUnlocked: completed >= minModules,
			PostTest:         r.PostTest.Submitted(),
			AnxietyPost:      r.AnxietySurvey.PostScore != nil,
			Testimonial:      r.SatisfactionSurvey.SubmittedAt != nil,
		},
		Results:      NewPersonalResults(r),
		RegisteredAt: r.RegisteredAt,
		LastUpdated:  r.LastUpdated,
	}
}

// AnxietySurveyRequest - ответы на 9 пунктов шкалы (1..5)
type AnxietySurveyRequest struct {
	Responses []int `json:"responses" binding:"required"`
}

// TestSubmissionRequest - ответы теста: ключ - ID вопроса ("1".."10")
type TestSubmissionRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// SatisfactionRequest - итоговый отзыв
type SatisfactionRequest struct {
	Testimonial string `json:"testimonial" binding:"required,max=5000"`
}

// SatisfactionResponse - подтверждение отзыва
type SatisfactionResponse struct {
	ParticipantID string     `json:"participant_id"`
	Testimonial   string     `json:"testimonial"`
	SubmittedAt   *time.Time `json:"submitted_at"`
}
