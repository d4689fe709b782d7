package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/handler/dto"
	"github.com/yourusername/easynatorics-api/internal/middleware"
)

// InstrumentHandler отдаёт вопросы опроса тревожности и тестов
type InstrumentHandler struct {
	bank *content.Bank
}

// NewInstrumentHandler создает обработчик инструментов
func NewInstrumentHandler(bank *content.Bank) *InstrumentHandler {
	return &InstrumentHandler{bank: bank}
}

// Anxiety возвращает пункты шкалы тревожности
func (h *InstrumentHandler) Anxiety(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AnxietyInstrumentResponse{
		Items: h.bank.AnxietyItems(),
		Scale: content.LikertLabels,
	})
}

// Test возвращает вопросы теста :kind без правильных ответов
func (h *InstrumentHandler) Test(c *gin.Context) {
	kind := c.MustGet(middleware.TestKindKey).(entity.TestKind)
	c.JSON(http.StatusOK, dto.NewTestInstrumentResponse(kind, h.bank.TestQuestions(kind)))
}
