package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/handler/dto"
	"github.com/yourusername/easynatorics-api/internal/handler/helper"
	"github.com/yourusername/easynatorics-api/internal/middleware"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/internal/service"
)

// ParticipantHandler обрабатывает регистрацию, сессии и исследовательские инструменты участника
type ParticipantHandler struct {
	participants *service.ParticipantService
	sessions     *service.SessionService
	logger       *logger.Logger
}

// NewParticipantHandler создает новый обработчик участников
func NewParticipantHandler(participants *service.ParticipantService, sessions *service.SessionService, log *logger.Logger) *ParticipantHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ParticipantHandler{participants: participants, sessions: sessions, logger: log}
}

// Register регистрирует участника и сразу открывает сессию
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.participants.Register(c.Request.Context(), req.Demographics(), req.Consent)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	session, err := h.sessions.Start(c.Request.Context(), record.ID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Participant: dto.NewParticipantResponse(record, service.MinModulesForPostTest),
		Session:     dto.NewSessionResponse(session),
	})
}

// StartSession открывает сессию для зарегистрированного участника (вход по ID)
func (h *ParticipantHandler) StartSession(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.sessions.Start(c.Request.Context(), req.ParticipantID)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSessionResponse(session))
}

// EndSession закрывает текущую сессию
func (h *ParticipantHandler) EndSession(c *gin.Context) {
	session, _ := middleware.SessionFromContext(c)
	if err := h.sessions.End(c.Request.Context(), session.Token); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me возвращает запись текущего участника
func (h *ParticipantHandler) Me(c *gin.Context) {
	record, err := h.participants.Get(c.Request.Context(), c.GetString(middleware.ParticipantIDKey))
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewParticipantResponse(record, service.MinModulesForPostTest))
}

// SubmitAnxietySurvey принимает ответы шкалы тревожности для фазы :phase
func (h *ParticipantHandler) SubmitAnxietySurvey(c *gin.Context) {
	phase := c.MustGet(middleware.PhaseKey).(entity.SurveyPhase)

	var req dto.AnxietySurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.participants.SubmitAnxietySurvey(c.Request.Context(), c.GetString(middleware.ParticipantIDKey), phase, req.Responses)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitTest принимает ответы pre/post-теста
func (h *ParticipantHandler) SubmitTest(c *gin.Context) {
	kind := c.MustGet(middleware.TestKindKey).(entity.TestKind)

	var req dto.TestSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	answers, err := helper.ConvertAnswerKeys(req.Answers)
	if err != nil {
		bindError(c, err)
		return
	}

	outcome, err := h.participants.SubmitTest(c.Request.Context(), c.GetString(middleware.ParticipantIDKey), kind, answers)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// SubmitSatisfaction принимает итоговый отзыв
func (h *ParticipantHandler) SubmitSatisfaction(c *gin.Context) {
	var req dto.SatisfactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.participants.SubmitSatisfaction(c.Request.Context(), c.GetString(middleware.ParticipantIDKey), req.Testimonial)
	if err != nil {
		handleParticipantError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SatisfactionResponse{
		ParticipantID: record.ID,
		Testimonial:   record.SatisfactionSurvey.Testimonial,
		SubmittedAt:   record.SatisfactionSurvey.SubmittedAt,
	})
}
