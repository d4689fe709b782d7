package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/handler/dto"
	"github.com/yourusername/easynatorics-api/internal/middleware"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service"
)

// LearningHandler обрабатывает модули, практику и тьютора
type LearningHandler struct {
	learning *service.LearningService
	demoMode bool
	logger   *logger.Logger
}

// NewLearningHandler создает обработчик обучения. demoMode отражается в ответах тьютора.
func NewLearningHandler(learning *service.LearningService, demoMode bool, log *logger.Logger) *LearningHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &LearningHandler{learning: learning, demoMode: demoMode, logger: log}
}

// ListModules возвращает состояние всех модулей
func (h *LearningHandler) ListModules(c *gin.Context) {
	modules, err := h.learning.Modules(c.Request.Context(), c.GetString(middleware.ParticipantIDKey))
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": modules})
}

// GetModule возвращает модуль с объяснением для текущего уровня
func (h *LearningHandler) GetModule(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)

	view, err := h.learning.Module(c.Request.Context(), c.GetString(middleware.ParticipantIDKey), concept)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetPractice возвращает набор задач; ?refresh=true генерирует новый
func (h *LearningHandler) GetPractice(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)
	session, _ := middleware.SessionFromContext(c)
	refresh := c.Query("refresh") == "true"

	view, err := h.learning.Practice(c.Request.Context(), session, concept, refresh)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CheckAnswer проверяет ответ на задачу :index
func (h *LearningHandler) CheckAnswer(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)
	index := c.MustGet(middleware.IndexKey).(int)
	session, _ := middleware.SessionFromContext(c)

	var req dto.CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.learning.CheckAnswer(c.Request.Context(), session, concept, index, req.Answer)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResetAnswers очищает ответы на текущие задачи
func (h *LearningHandler) ResetAnswers(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)
	session, _ := middleware.SessionFromContext(c)

	view, err := h.learning.ResetAnswers(c.Request.Context(), session, concept)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AskTutor передаёт вопрос AI-тьютору
func (h *LearningHandler) AskTutor(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)

	var req dto.TutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	answer, err := h.learning.AskTutor(c.Request.Context(), concept, req.Question)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TutorResponse{Answer: answer, DemoMode: h.demoMode})
}

// CompleteModule отмечает модуль завершённым
func (h *LearningHandler) CompleteModule(c *gin.Context) {
	concept := c.MustGet(middleware.ConceptKey).(entity.Concept)
	session, _ := middleware.SessionFromContext(c)

	summary, err := h.learning.CompleteModule(c.Request.Context(), session, concept)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
