package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service/progress"
)

// MinModulesForPostTest - сколько модулей нужно завершить до post-теста
const MinModulesForPostTest = 2

// Уровни тревожности по среднему баллу AMAS
const (
	AnxietyLow      = "low"
	AnxietyModerate = "moderate"
	AnxietyHigh     = "high"
)

// AnxietyBand относит средний балл к уровню тревожности
func AnxietyBand(score float64) string {
	switch {
	case score <= 2.0:
		return AnxietyLow
	case score <= 3.5:
		return AnxietyModerate
	default:
		return AnxietyHigh
	}
}

// AnxietyResult - итог опроса тревожности
type AnxietyResult struct {
	Phase entity.SurveyPhase `json:"phase"`
	Score float64            `json:"score"`
	Band  string             `json:"band"`
}

// TestOutcome - итог pre/post-теста
type TestOutcome struct {
	Kind       entity.TestKind     `json:"kind"`
	Score      int                 `json:"score"`
	MaxScore   int                 `json:"max_score"`
	Percentage int                 `json:"percentage"`
	Answers    []entity.TestAnswer `json:"answers"`
	// Improvement заполняется только для post-теста
	Improvement *int `json:"improvement,omitempty"`
}

// AttemptOutcome - состояние темы после зачтённой попытки
type AttemptOutcome struct {
	Concept     entity.Concept `json:"concept"`
	IsCorrect   bool           `json:"is_correct"`
	LevelBefore entity.Level   `json:"level_before"`
	LevelAfter  entity.Level   `json:"level_after"`
	Attempts    int            `json:"attempts"`
	Correct     int            `json:"correct"`
}

// ParticipantService управляет исследовательской записью участника
type ParticipantService struct {
	participants repository.ParticipantRepository
	events       repository.AttemptEventRepository
	tracker      *progress.Tracker
	bank         *content.Bank
	logger       *logger.Logger
	now          func() time.Time
	// чтение-изменение-запись одной записи выполняются по очереди
	locks *keyedLock
}

// NewParticipantService создает сервис участников
func NewParticipantService(
	participants repository.ParticipantRepository,
	events repository.AttemptEventRepository,
	tracker *progress.Tracker,
	bank *content.Bank,
	log *logger.Logger,
) *ParticipantService {
	if tracker == nil {
		tracker = progress.NewTracker(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ParticipantService{
		participants: participants,
		events:       events,
		tracker:      tracker,
		bank:         bank,
		logger:       log,
		now:          func() time.Time { return time.Now().UTC() },
		locks:        newKeyedLock(),
	}
}

// Register проверяет анкету и согласие и создаёт запись участника
func (s *ParticipantService) Register(ctx context.Context, demographics entity.Demographics, consent bool) (*entity.ParticipantRecord, error) {
	demographics.Name = strings.TrimSpace(demographics.Name)
	if err := demographics.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !consent {
		return nil, fmt.Errorf("%w: research consent is required", apperrors.ErrValidation)
	}

	id, err := s.participants.Create(ctx, demographics)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[ParticipantService] Participant registered", "participant_id", id, "grade", demographics.Grade)
	return s.participants.Load(ctx, id)
}

// Get возвращает запись участника
func (s *ParticipantService) Get(ctx context.Context, id string) (*entity.ParticipantRecord, error) {
	return s.participants.Load(ctx, id)
}

// RecordAttempt засчитывает попытку решения задачи и сохраняет запись.
// Ошибка записи в журнал попыток только логируется.
func (s *ParticipantService) RecordAttempt(ctx context.Context, id string, concept entity.Concept, isCorrect bool) (*AttemptOutcome, error) {
	if !concept.Valid() {
		return nil, fmt.Errorf("%w: unknown concept %q", apperrors.ErrValidation, concept)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	record, err := s.participants.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	before := s.tracker.CurrentLevel(record, concept)
	record = s.tracker.RecordAttempt(record, concept, isCorrect)
	if err := s.participants.Save(ctx, id, record); err != nil {
		return nil, err
	}
	after := s.tracker.CurrentLevel(record, concept)
	perf := record.AdaptiveLearning.PerformanceHistory[concept]

	if after != before {
		s.logger.Info("[ParticipantService] Level promoted", "participant_id", id, "concept", concept, "from", before, "to", after)
	}

	event := &entity.AttemptEvent{
		ParticipantID: id,
		Concept:       concept,
		IsCorrect:     isCorrect,
		LevelBefore:   before,
		LevelAfter:    after,
	}
	if err := s.events.Record(ctx, event); err != nil {
		s.logger.Warn("[ParticipantService] Failed to record attempt event", "participant_id", id, "concept", concept, "error", err)
	}

	return &AttemptOutcome{
		Concept:     concept,
		IsCorrect:   isCorrect,
		LevelBefore: before,
		LevelAfter:  after,
		Attempts:    perf.Attempts,
		Correct:     perf.Correct,
	}, nil
}

// CompleteModule отмечает модуль завершённым (повторный вызов ничего не меняет)
func (s *ParticipantService) CompleteModule(ctx context.Context, id string, concept entity.Concept) (*entity.ParticipantRecord, error) {
	if !concept.Valid() {
		return nil, fmt.Errorf("%w: unknown concept %q", apperrors.ErrValidation, concept)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	record, err := s.participants.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.LearningProgress.ModuleProgress[concept].Completed {
		return record, nil
	}

	record = s.tracker.CompleteModule(record, concept, s.now())
	if err := s.participants.Save(ctx, id, record); err != nil {
		return nil, err
	}
	s.logger.Info("[ParticipantService] Module completed", "participant_id", id, "concept", concept, "completed_modules", record.CompletedModules())
	return record, nil
}

// SubmitAnxietySurvey сохраняет ответы шкалы тревожности. Каждая фаза принимается один раз.
func (s *ParticipantService) SubmitAnxietySurvey(ctx context.Context, id string, phase entity.SurveyPhase, responses []int) (*AnxietyResult, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("%w: unknown survey phase %q", apperrors.ErrValidation, phase)
	}
	items := s.bank.AnxietyItems()
	if len(responses) != len(items) {
		return nil, fmt.Errorf("%w: expected %d responses, got %d", apperrors.ErrValidation, len(items), len(responses))
	}

	answers := make([]entity.SurveyResponse, len(responses))
	sum := 0
	for i, r := range responses {
		if float64(r) < entity.MinLikert || float64(r) > entity.MaxLikert {
			return nil, fmt.Errorf("%w: response %d is %d, must be between 1 and 5", apperrors.ErrValidation, i+1, r)
		}
		answers[i] = entity.SurveyResponse{Question: items[i].Text, Response: r}
		sum += r
	}
	score := float64(sum) / float64(len(responses))

	unlock := s.locks.Lock(id)
	defer unlock()

	record, err := s.participants.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	survey := &record.AnxietySurvey
	switch phase {
	case entity.SurveyPre:
		if survey.PreScore != nil {
			return nil, fmt.Errorf("%w: pre-learning anxiety survey already submitted", apperrors.ErrConflict)
		}
		survey.PreScore = &score
		survey.PreResponses = answers
	case entity.SurveyPost:
		if survey.PostScore != nil {
			return nil, fmt.Errorf("%w: post-learning anxiety survey already submitted", apperrors.ErrConflict)
		}
		survey.PostScore = &score
		survey.PostResponses = answers
	}

	if err := s.participants.Save(ctx, id, record); err != nil {
		return nil, err
	}
	s.logger.Info("[ParticipantService] Anxiety survey submitted", "participant_id", id, "phase", phase, "score", score)
	return &AnxietyResult{Phase: phase, Score: score, Band: AnxietyBand(score)}, nil
}

// SubmitTest оценивает pre/post-тест. Нужны ответы на все вопросы;
// post-тест доступен после завершения MinModulesForPostTest модулей.
func (s *ParticipantService) SubmitTest(ctx context.Context, id string, kind entity.TestKind, answers map[int]string) (*TestOutcome, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown test kind %q", apperrors.ErrValidation, kind)
	}
	questions := s.bank.TestQuestions(kind)

	graded := make([]entity.TestAnswer, 0, len(questions))
	score := 0
	for _, q := range questions {
		answer, ok := answers[q.ID]
		answer = strings.TrimSpace(answer)
		if !ok || answer == "" {
			return nil, fmt.Errorf("%w: question %d is not answered", apperrors.ErrValidation, q.ID)
		}
		correct := answer == q.CorrectAnswer
		if correct {
			score++
		}
		graded = append(graded, entity.TestAnswer{QuestionID: q.ID, Answer: answer, Correct: correct})
	}
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", apperrors.ErrValidation, len(answers), len(questions))
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	record, err := s.participants.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	target := &record.PreTest
	if kind == entity.TestPost {
		target = &record.PostTest
		if n := record.CompletedModules(); n < MinModulesForPostTest {
			return nil, fmt.Errorf("%w: post-test requires %d completed modules, have %d", apperrors.ErrConflict, MinModulesForPostTest, n)
		}
	}
	if target.Submitted() {
		return nil, fmt.Errorf("%w: %s-test already submitted", apperrors.ErrConflict, kind)
	}

	now := s.now()
	target.Score = &score
	target.Answers = graded
	target.CompletedAt = &now

	if err := s.participants.Save(ctx, id, record); err != nil {
		return nil, err
	}
	s.logger.Info("[ParticipantService] Test submitted", "participant_id", id, "kind", kind, "score", score)

	outcome := &TestOutcome{
		Kind:       kind,
		Score:      score,
		MaxScore:   len(questions),
		Percentage: score * 100 / len(questions),
		Answers:    graded,
	}
	if kind == entity.TestPost && record.PreTest.Score != nil {
		improvement := score - *record.PreTest.Score
		outcome.Improvement = &improvement
	}
	return outcome, nil
}

// SubmitSatisfaction сохраняет итоговый отзыв участника (один раз)
func (s *ParticipantService) SubmitSatisfaction(ctx context.Context, id, testimonial string) (*entity.ParticipantRecord, error) {
	testimonial = strings.TrimSpace(testimonial)
	if testimonial == "" {
		return nil, fmt.Errorf("%w: testimonial is empty", apperrors.ErrValidation)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	record, err := s.participants.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.SatisfactionSurvey.SubmittedAt != nil {
		return nil, fmt.Errorf("%w: testimonial already submitted", apperrors.ErrConflict)
	}

	now := s.now()
	record.SatisfactionSurvey = entity.SatisfactionSurvey{Testimonial: testimonial, SubmittedAt: &now}
	if err := s.participants.Save(ctx, id, record); err != nil {
		return nil, err
	}
	s.logger.Info("[ParticipantService] Testimonial submitted", "participant_id", id)
	return record, nil
}

// AttemptHistory возвращает журнал попыток участника
func (s *ParticipantService) AttemptHistory(ctx context.Context, id string) ([]entity.AttemptEvent, error) {
	if _, err := s.participants.Load(ctx, id); err != nil {
		return nil, err
	}
	return s.events.ListByParticipant(ctx, id)
}
