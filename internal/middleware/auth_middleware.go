package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/pkg/auth"
)

// Заголовок и ключи контекста аутентификации
const (
	SessionHeader    = "X-Session-Token"
	SessionKey       = "session"
	ParticipantIDKey = "participant_id"
	ResearcherKey    = "researcher_claims"
)

// SessionResolver находит активную сессию по токену
type SessionResolver interface {
	Get(ctx context.Context, token string) (*entity.Session, error)
}

// ResearcherTokenValidator проверяет JWT исследователя
type ResearcherTokenValidator interface {
	ValidateToken(token string) (*auth.JWTCustomClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию участников (сессия) и исследователя (JWT)
type AuthMiddleware struct {
	sessions    SessionResolver
	researchers ResearcherTokenValidator
	logger      *logger.Logger
}

// NewAuthMiddleware создает middleware аутентификации
func NewAuthMiddleware(sessions SessionResolver, researchers ResearcherTokenValidator, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthMiddleware{sessions: sessions, researchers: researchers, logger: log}
}

// RequireSession проверяет токен сессии участника.
// Токен берётся из X-Session-Token или из заголовка "Authorization: Session {token}".
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token = schemeToken(c.GetHeader("Authorization"), "Session")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session token is required", "error_type": "session_missing"})
			return
		}

		session, err := m.sessions.Get(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session is invalid or expired", "error_type": "session_invalid"})
				return
			}
			m.logger.Error("[AuthMiddleware] Failed to load session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session", "error_type": "internal_server_error"})
			return
		}

		c.Set(SessionKey, session)
		c.Set(ParticipantIDKey, session.ParticipantID)
		c.Next()
	}
}

// RequireResearcher проверяет Bearer-токен исследователя
func (m *AuthMiddleware) RequireResearcher() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			return
		}
		token := schemeToken(authHeader, "Bearer")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			return
		}

		claims, err := m.researchers.ValidateToken(token)
		if err != nil {
			m.logger.Warn("[AuthMiddleware] Researcher token rejected", "ip", c.ClientIP(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			return
		}

		c.Set(ResearcherKey, claims)
		c.Next()
	}
}

// SessionFromContext возвращает сессию, сохранённую RequireSession
func SessionFromContext(c *gin.Context) (*entity.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*entity.Session)
	return session, ok
}

func schemeToken(header, scheme string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
