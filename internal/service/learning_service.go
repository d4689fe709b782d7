package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service/progress"
)

// PracticeQuestionCount - размер набора тренировочных задач
const PracticeQuestionCount = 3

// ModuleSummary - состояние модуля для участника
type ModuleSummary struct {
	Concept     entity.Concept `json:"concept"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Level       entity.Level   `json:"level"`
	Completed   bool           `json:"completed"`
	Attempts    int            `json:"attempts"`
	Correct     int            `json:"correct"`
	Accuracy    float64        `json:"accuracy"`
}

// ModuleView - модуль с объяснением для текущего уровня
type ModuleView struct {
	ModuleSummary
	Explanation string `json:"explanation"`
}

// PracticeItem - задача в том виде, в котором её видит участник.
// Ответ и объяснение раскрываются только после проверки.
type PracticeItem struct {
	Index         int      `json:"index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Hint          string   `json:"hint"`
	Answer        string   `json:"answer,omitempty"`
	Checked       bool     `json:"checked"`
	Correct       *bool    `json:"correct,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// PracticeView - текущий набор задач по теме
type PracticeView struct {
	Concept entity.Concept `json:"concept"`
	Level   entity.Level   `json:"level"`
	Items   []PracticeItem `json:"items"`
}

// CheckResult - результат проверки ответа
type CheckResult struct {
	Item PracticeItem `json:"item"`
	// Recorded - попытка засчитана в прогресс (только первая проверка)
	Recorded bool            `json:"recorded"`
	Outcome  *AttemptOutcome `json:"outcome,omitempty"`
}

// LearningService реализует учебный цикл: объяснение, практика, тьютор
type LearningService struct {
	participants *ParticipantService
	sessions     *SessionService
	source       content.Source
	bank         *content.Bank
	tracker      *progress.Tracker
	logger       *logger.Logger
	sessionLocks *keyedLock
}

// NewLearningService создает сервис обучения
func NewLearningService(
	participants *ParticipantService,
	sessions *SessionService,
	source content.Source,
	bank *content.Bank,
	tracker *progress.Tracker,
	log *logger.Logger,
) *LearningService {
	if tracker == nil {
		tracker = progress.NewTracker(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &LearningService{
		participants: participants,
		sessions:     sessions,
		source:       source,
		bank:         bank,
		tracker:      tracker,
		logger:       log,
		sessionLocks: newKeyedLock(),
	}
}

// Modules возвращает состояние всех модулей в порядке курса
func (s *LearningService) Modules(ctx context.Context, participantID string) ([]ModuleSummary, error) {
	record, err := s.participants.Get(ctx, participantID)
	if err != nil {
		return nil, err
	}
	modules := make([]ModuleSummary, 0, len(entity.AllConcepts()))
	for _, c := range entity.AllConcepts() {
		modules = append(modules, s.summary(record, c))
	}
	return modules, nil
}

// Module возвращает модуль с объяснением для текущего уровня участника
func (s *LearningService) Module(ctx context.Context, participantID string, concept entity.Concept) (*ModuleView, error) {
	if err := validConcept(concept); err != nil {
		return nil, err
	}
	record, err := s.participants.Get(ctx, participantID)
	if err != nil {
		return nil, err
	}
	summary := s.summary(record, concept)
	return &ModuleView{
		ModuleSummary: summary,
		Explanation:   s.source.Explanation(ctx, concept, summary.Level),
	}, nil
}

// Practice возвращает набор задач из сессии или генерирует новый
// (при первом обращении или refresh=true) на текущем уровне участника.
func (s *LearningService) Practice(ctx context.Context, session *entity.Session, concept entity.Concept, refresh bool) (*PracticeView, error) {
	if err := validConcept(concept); err != nil {
		return nil, err
	}

	var view *PracticeView
	err := s.withSession(ctx, session, func(current *entity.Session) error {
		set, ok := current.Practice[concept]
		if !ok || set == nil || refresh {
			record, err := s.participants.Get(ctx, current.ParticipantID)
			if err != nil {
				return err
			}
			level := s.tracker.CurrentLevel(record, concept)
			questions := s.source.PracticeQuestions(ctx, concept, level, PracticeQuestionCount)
			set = entity.NewPracticeSet(level, questions)
			current.Practice[concept] = set

			if err := s.sessions.Save(ctx, current); err != nil {
				return err
			}
			s.logger.Debug("[LearningService] Practice set generated", "participant_id", current.ParticipantID, "concept", concept, "level", level, "count", len(questions))
		}
		view = practiceView(concept, set)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CheckAnswer проверяет ответ на задачу index. Только первая проверка задачи
// засчитывается в прогресс; повторная возвращает сохранённый результат.
// Результат сначала фиксируется в сессии, затем засчитывается попытка; если
// попытку сохранить не удалось, результат в сессии откатывается. Поэтому
// каждая задача засчитывается не более одного раза.
func (s *LearningService) CheckAnswer(ctx context.Context, session *entity.Session, concept entity.Concept, index int, answer string) (*CheckResult, error) {
	if err := validConcept(concept); err != nil {
		return nil, err
	}

	var result *CheckResult
	err := s.withSession(ctx, session, func(current *entity.Session) error {
		set, ok := current.Practice[concept]
		if !ok || set == nil {
			return fmt.Errorf("%w: no practice set for %s, request practice questions first", apperrors.ErrConflict, concept)
		}
		if index < 0 || index >= len(set.Questions) {
			return fmt.Errorf("%w: question index %d out of range", apperrors.ErrValidation, index)
		}

		if set.Results[index] != nil {
			result = &CheckResult{Item: practiceItem(index, set)}
			return nil
		}

		answer = strings.TrimSpace(answer)
		if answer == "" {
			return fmt.Errorf("%w: choose an answer first", apperrors.ErrValidation)
		}
		question := set.Questions[index]
		if !containsOption(question.Options, answer) {
			return fmt.Errorf("%w: answer is not one of the options", apperrors.ErrValidation)
		}

		correct := answer == question.Answer
		set.Answers[index] = answer
		set.Results[index] = &entity.PracticeResult{Correct: correct}
		if err := s.sessions.Save(ctx, current); err != nil {
			set.Answers[index] = ""
			set.Results[index] = nil
			return err
		}

		outcome, err := s.participants.RecordAttempt(ctx, current.ParticipantID, concept, correct)
		if err != nil {
			set.Answers[index] = ""
			set.Results[index] = nil
			if rollbackErr := s.sessions.Save(ctx, current); rollbackErr != nil {
				s.logger.Error("[LearningService] Failed to roll back practice result", "participant_id", current.ParticipantID, "concept", concept, "index", index, "error", rollbackErr)
			}
			return err
		}

		result = &CheckResult{Item: practiceItem(index, set), Recorded: true, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResetAnswers очищает ответы, задачи остаются прежними
func (s *LearningService) ResetAnswers(ctx context.Context, session *entity.Session, concept entity.Concept) (*PracticeView, error) {
	if err := validConcept(concept); err != nil {
		return nil, err
	}

	var view *PracticeView
	err := s.withSession(ctx, session, func(current *entity.Session) error {
		set, ok := current.Practice[concept]
		if !ok || set == nil {
			return fmt.Errorf("%w: no practice set for %s", apperrors.ErrConflict, concept)
		}
		set.ResetAnswers()
		if err := s.sessions.Save(ctx, current); err != nil {
			return err
		}
		view = practiceView(concept, set)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AskTutor передаёт вопрос участника тьютору
func (s *LearningService) AskTutor(ctx context.Context, concept entity.Concept, question string) (string, error) {
	if err := validConcept(concept); err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is empty", apperrors.ErrValidation)
	}
	return s.source.Ask(ctx, concept, question), nil
}

// CompleteModule завершает модуль и убирает набор задач из сессии
func (s *LearningService) CompleteModule(ctx context.Context, session *entity.Session, concept entity.Concept) (*ModuleSummary, error) {
	record, err := s.participants.CompleteModule(ctx, session.ParticipantID, concept)
	if err != nil {
		return nil, err
	}

	err = s.withSession(ctx, session, func(current *entity.Session) error {
		if _, ok := current.Practice[concept]; !ok {
			return nil
		}
		delete(current.Practice, concept)
		return s.sessions.Save(ctx, current)
	})
	if err != nil {
		return nil, err
	}

	summary := s.summary(record, concept)
	return &summary, nil
}

// withSession выполняет fn над актуальной копией сессии под блокировкой её
// токена; состояние после fn копируется в session.
func (s *LearningService) withSession(ctx context.Context, session *entity.Session, fn func(current *entity.Session) error) error {
	unlock := s.sessionLocks.Lock(session.Token)
	defer unlock()

	current, err := s.sessions.Get(ctx, session.Token)
	if err != nil {
		return err
	}
	err = fn(current)
	*session = *current
	return err
}

func (s *LearningService) summary(record *entity.ParticipantRecord, concept entity.Concept) ModuleSummary {
	info := s.bank.Module(concept)
	perf := record.AdaptiveLearning.PerformanceHistory[concept]
	return ModuleSummary{
		Concept:     concept,
		Name:        info.Name,
		Title:       info.Title,
		Description: info.Description,
		Level:       s.tracker.CurrentLevel(record, concept),
		Completed:   record.LearningProgress.ModuleProgress[concept].Completed,
		Attempts:    perf.Attempts,
		Correct:     perf.Correct,
		Accuracy:    s.tracker.Accuracy(record, concept),
	}
}

func practiceView(concept entity.Concept, set *entity.PracticeSet) *PracticeView {
	items := make([]PracticeItem, len(set.Questions))
	for i := range set.Questions {
		items[i] = practiceItem(i, set)
	}
	return &PracticeView{Concept: concept, Level: set.Level, Items: items}
}

func practiceItem(i int, set *entity.PracticeSet) PracticeItem {
	q := set.Questions[i]
	item := PracticeItem{
		Index:    i,
		Question: q.Text,
		Options:  q.Options,
		Hint:     q.Hint,
	}
	if i < len(set.Answers) {
		item.Answer = set.Answers[i]
	}
	if i < len(set.Results) && set.Results[i] != nil {
		correct := set.Results[i].Correct
		item.Checked = true
		item.Correct = &correct
		item.CorrectAnswer = q.Answer
		item.Explanation = q.Explanation
	}
	return item
}

func validConcept(concept entity.Concept) error {
	if !concept.Valid() {
		return fmt.Errorf("%w: unknown concept %q", apperrors.ErrNotFound, concept)
	}
	return nil
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
