package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

// participantNotFoundMessage - ответ на неизвестный ID участника
const participantNotFoundMessage = "Participant not found. Please register first."

// handleError переводит ошибки сервисов в HTTP-ответы.
// Сбои хранилища и прочие ошибки отдаются клиенту без подробностей.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation_failed"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrDeserialization):
		log.Error("[Handler] Participant record is unreadable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Participant record is unreadable", "error_type": "record_corrupt"})
	case errors.Is(err, apperrors.ErrStorage):
		log.Error("[Handler] Storage failure", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save data, please try again", "error_type": "storage_failure"})
	default:
		log.Error("[Handler] Internal server error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}

// handleParticipantError отличается от handleError только текстом для неизвестного участника
func handleParticipantError(c *gin.Context, log *logger.Logger, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": participantNotFoundMessage, "error_type": "participant_not_found"})
		return
	}
	handleError(c, log, err)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
}
