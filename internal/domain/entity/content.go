package entity

// Параметры исследовательских инструментов
const (
	// MaxTestScore - число вопросов pre/post-теста (1 балл за вопрос)
	MaxTestScore = 10
	// AnxietyItemCount - число пунктов шкалы тревожности
	AnxietyItemCount = 9
	MinLikert        = 1.0
	MaxLikert        = 5.0
)

// TestKind - pre- или post-тест
type TestKind string

const (
	TestPre  TestKind = "pre"
	TestPost TestKind = "post"
)

// Valid проверяет тип теста
func (k TestKind) Valid() bool {
	return k == TestPre || k == TestPost
}

// SurveyPhase - опрос до или после обучения (значения совпадают с TestKind)
type SurveyPhase string

const (
	SurveyPre  SurveyPhase = "pre"
	SurveyPost SurveyPhase = "post"
)

// Valid проверяет фазу опроса
func (p SurveyPhase) Valid() bool {
	return p == SurveyPre || p == SurveyPost
}

// AnxietyItem - пункт шкалы тревожности
type AnxietyItem struct {
	Text     string `json:"text"`
	Category string `json:"category"` // Learning | Evaluation
}

// TestQuestion - вопрос pre/post-теста
type TestQuestion struct {
	ID            int      `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Concept       Concept  `json:"concept"`
	Explanation   string   `json:"explanation"`
}

// PracticeQuestion - тренировочная задача модуля
type PracticeQuestion struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Hint        string   `json:"hint"`
}

// Valid проверяет, что задача пригодна для показа: есть текст,
// минимум два варианта и правильный ответ среди вариантов
func (q PracticeQuestion) Valid() bool {
	if q.Text == "" || len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}
