package dto

// CheckAnswerRequest - выбранный вариант ответа
type CheckAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// TutorRequest - вопрос AI-тьютору
type TutorRequest struct {
	Question string `json:"question" binding:"required,max=1000"`
}

// TutorResponse - ответ тьютора
type TutorResponse struct {
	Answer   string `json:"answer"`
	DemoMode bool   `json:"demo_mode"`
}
