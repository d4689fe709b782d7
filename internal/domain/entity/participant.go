package entity

import (
	"fmt"
	"strings"
	"time"
)

// CurrentSchemaVersion - версия формата файла участника.
// Повышается при любом несовместимом изменении полей.
const CurrentSchemaVersion = 1

// Concept - одна из трёх тем курса комбинаторики
type Concept string

const (
	ConceptMultiplication Concept = "multiplication_principle"
	ConceptPermutation    Concept = "permutation"
	ConceptCombination    Concept = "combination"
)

// AllConcepts возвращает темы в порядке прохождения курса
func AllConcepts() []Concept {
	return []Concept{ConceptMultiplication, ConceptPermutation, ConceptCombination}
}

// Valid проверяет, что тема известна системе
func (c Concept) Valid() bool {
	switch c {
	case ConceptMultiplication, ConceptPermutation, ConceptCombination:
		return true
	}
	return false
}

// Level - уровень сложности контента по теме
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Rank возвращает порядковый номер уровня (0 для неизвестного)
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	}
	return 0
}

// Valid проверяет, что уровень известен системе
func (l Level) Valid() bool {
	return l.Rank() > 0
}

// Demographics - анкетные данные, заполняются один раз при регистрации
type Demographics struct {
	Name       string `json:"name"`
	Grade      string `json:"grade"`      // "10", "11", "12"
	Age        int    `json:"age"`        // 15..18
	Experience string `json:"experience"` // Pemula, Menengah, Lanjutan
}

// Допустимые значения анкеты (как в исходной форме регистрации)
var (
	AllowedGrades      = []string{"10", "11", "12"}
	AllowedExperiences = []string{"Pemula", "Menengah", "Lanjutan"}
)

const (
	MinParticipantAge = 15
	MaxParticipantAge = 18
)

// Validate проверяет анкету перед регистрацией
func (d Demographics) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !contains(AllowedGrades, d.Grade) {
		return fmt.Errorf("grade must be one of %v", AllowedGrades)
	}
	if d.Age < MinParticipantAge || d.Age > MaxParticipantAge {
		return fmt.Errorf("age must be between %d and %d", MinParticipantAge, MaxParticipantAge)
	}
	if !contains(AllowedExperiences, d.Experience) {
		return fmt.Errorf("experience must be one of %v", AllowedExperiences)
	}
	return nil
}

// TestAnswer - ответ на один вопрос pre/post-теста
type TestAnswer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

// TestResult - результат pre- или post-теста. Заполняется ровно один раз.
type TestResult struct {
	Score       *int         `json:"score"`
	Answers     []TestAnswer `json:"answers"`
	CompletedAt *time.Time   `json:"completion_time"`
}

// Submitted сообщает, был ли тест уже отправлен
func (t TestResult) Submitted() bool {
	return t.Score != nil
}

// SurveyResponse - ответ на один пункт шкалы тревожности (1..5)
type SurveyResponse struct {
	Question string `json:"question"`
	Response int    `json:"response"`
}

// AnxietySurvey хранит баллы AMAS до и после обучения
type AnxietySurvey struct {
	PreScore      *float64         `json:"pre_score"`
	PostScore     *float64         `json:"post_score"`
	PreResponses  []SurveyResponse `json:"pre_responses"`
	PostResponses []SurveyResponse `json:"post_responses"`
}

// SatisfactionSurvey - итоговый отзыв, заполняется не более одного раза
type SatisfactionSurvey struct {
	Testimonial string     `json:"testimonial"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// ModuleProgress - флаг завершения модуля. Completed монотонен.
type ModuleProgress struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// LearningProgress - накопительные счётчики практики
type LearningProgress struct {
	ProblemsAttempted int                        `json:"problems_attempted"`
	ProblemsCorrect   int                        `json:"problems_correct"`
	ModuleProgress    map[Concept]ModuleProgress `json:"module_progress"`
}

// Performance - накопительные счётчики по одной теме
type Performance struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// AdaptiveLearning - текущие уровни и история результатов по темам
type AdaptiveLearning struct {
	CurrentLevels      map[Concept]Level       `json:"current_levels"`
	PerformanceHistory map[Concept]Performance `json:"performance_history"`
}

// ParticipantRecord - полная исследовательская запись одного участника
type ParticipantRecord struct {
	SchemaVersion      int                `json:"schema_version"`
	ID                 string             `json:"participant_id"`
	Demographics       Demographics       `json:"demographics"`
	PreTest            TestResult         `json:"pre_test"`
	PostTest           TestResult         `json:"post_test"`
	AnxietySurvey      AnxietySurvey      `json:"anxiety_survey"`
	SatisfactionSurvey SatisfactionSurvey `json:"satisfaction_survey"`
	LearningProgress   LearningProgress   `json:"learning_progress"`
	AdaptiveLearning   AdaptiveLearning   `json:"adaptive_learning"`
	RegisteredAt       time.Time          `json:"registration_time"`
	LastUpdated        time.Time          `json:"last_updated"`
}

// NewParticipantRecord создаёт запись с обнулёнными счётчиками и уровнем beginner по всем темам
func NewParticipantRecord(id string, demographics Demographics, now time.Time) *ParticipantRecord {
	rec := &ParticipantRecord{
		SchemaVersion: CurrentSchemaVersion,
		ID:            id,
		Demographics:  demographics,
		LearningProgress: LearningProgress{
			ModuleProgress: make(map[Concept]ModuleProgress, 3),
		},
		AdaptiveLearning: AdaptiveLearning{
			CurrentLevels:      make(map[Concept]Level, 3),
			PerformanceHistory: make(map[Concept]Performance, 3),
		},
		RegisteredAt: now,
		LastUpdated:  now,
	}
	for _, c := range AllConcepts() {
		rec.LearningProgress.ModuleProgress[c] = ModuleProgress{}
		rec.AdaptiveLearning.CurrentLevels[c] = LevelBeginner
		rec.AdaptiveLearning.PerformanceHistory[c] = Performance{}
	}
	return rec
}

// CompletedModules возвращает количество завершённых модулей
func (r *ParticipantRecord) CompletedModules() int {
	n := 0
	for _, c := range AllConcepts() {
		if r.LearningProgress.ModuleProgress[c].Completed {
			n++
		}
	}
	return n
}

// Validate отклоняет записи, нарушающие инварианты модели.
// Вызывается при десериализации: повреждённая запись не должна
// «молча» превращаться в запись со значениями по умолчанию.
func (r *ParticipantRecord) Validate() error {
	if r.SchemaVersion != CurrentSchemaVersion {
		return fmt.Errorf("unsupported schema version %d", r.SchemaVersion)
	}
	if r.ID == "" {
		return fmt.Errorf("participant_id is empty")
	}
	lp := r.LearningProgress
	if lp.ProblemsAttempted < 0 || lp.ProblemsCorrect < 0 || lp.ProblemsCorrect > lp.ProblemsAttempted {
		return fmt.Errorf("inconsistent learning progress: %d correct of %d attempted", lp.ProblemsCorrect, lp.ProblemsAttempted)
	}
	for _, c := range AllConcepts() {
		if _, ok := lp.ModuleProgress[c]; !ok {
			return fmt.Errorf("module_progress is missing %q", c)
		}
		level, ok := r.AdaptiveLearning.CurrentLevels[c]
		if !ok || !level.Valid() {
			return fmt.Errorf("current_levels has invalid entry for %q", c)
		}
		perf, ok := r.AdaptiveLearning.PerformanceHistory[c]
		if !ok {
			return fmt.Errorf("performance_history is missing %q", c)
		}
		if perf.Attempts < 0 || perf.Correct < 0 || perf.Correct > perf.Attempts {
			return fmt.Errorf("inconsistent performance for %q: %d correct of %d attempts", c, perf.Correct, perf.Attempts)
		}
	}
	for name, t := range map[string]TestResult{"pre_test": r.PreTest, "post_test": r.PostTest} {
		if t.Score != nil && (*t.Score < 0 || *t.Score > MaxTestScore) {
			return fmt.Errorf("%s score %d out of range", name, *t.Score)
		}
	}
	for name, s := range map[string]*float64{"pre_score": r.AnxietySurvey.PreScore, "post_score": r.AnxietySurvey.PostScore} {
		if s != nil && (*s < MinLikert || *s > MaxLikert) {
			return fmt.Errorf("anxiety %s %.2f out of range", name, *s)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
