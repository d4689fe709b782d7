package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
)

// Ключи контекста, заполняемые middleware параметров
const (
	ConceptKey  = "concept"
	IndexKey    = "practice_index"
	TestKindKey = "test_kind"
	PhaseKey    = "survey_phase"
)

// ExtractIntParam создает middleware для извлечения неотрицательного числового параметра URL.
// paramName - имя параметра в URL (например, "index").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractIntParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := strconv.Atoi(c.Param(paramName))
		if err != nil || value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName), "error_type": "invalid_param"})
			c.Abort()
			return
		}
		c.Set(contextKey, value)
		c.Next()
	}
}

// ExtractConcept проверяет параметр :concept и сохраняет entity.Concept в контексте
func ExtractConcept(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		concept := entity.Concept(c.Param(paramName))
		if !concept.Valid() {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown module %q", concept), "error_type": "module_not_found"})
			c.Abort()
			return
		}
		c.Set(ConceptKey, concept)
		c.Next()
	}
}

// ExtractTestKind проверяет параметр :kind (pre|post)
func ExtractTestKind(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := entity.TestKind(c.Param(paramName))
		if !kind.Valid() {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown test %q", kind), "error_type": "test_not_found"})
			c.Abort()
			return
		}
		c.Set(TestKindKey, kind)
		c.Next()
	}
}

// ExtractSurveyPhase проверяет параметр :phase (pre|post)
func ExtractSurveyPhase(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		phase := entity.SurveyPhase(c.Param(paramName))
		if !phase.Valid() {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown survey phase %q", phase), "error_type": "phase_not_found"})
			c.Abort()
			return
		}
		c.Set(PhaseKey, phase)
		c.Next()
	}
}
