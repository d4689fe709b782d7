package service

import (
	"fmt"
	"time"

	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
	"github.com/yourusername/easynatorics-api/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// ResearcherSubject - subject токена исследователя (учётная запись одна)
const ResearcherSubject = "researcher"

// ResearcherToken - выданный токен и момент его истечения
type ResearcherToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ResearcherAuthService проверяет пароль исследователя и выдаёт JWT
type ResearcherAuthService struct {
	passwordHash []byte
	jwtService   *auth.JWTService
	logger       *logger.Logger
}

// NewResearcherAuthService создает сервис. Пустой хэш отключает вход исследователя.
func NewResearcherAuthService(passwordHash string, jwtService *auth.JWTService, log *logger.Logger) (*ResearcherAuthService, error) {
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for ResearcherAuthService")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("researcher password hash is not a valid bcrypt hash: %w", err)
		}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ResearcherAuthService{
		passwordHash: []byte(passwordHash),
		jwtService:   jwtService,
		logger:       log,
	}, nil
}

// Login сверяет пароль с bcrypt-хэшем и выдаёт токен
func (s *ResearcherAuthService) Login(password string) (*ResearcherToken, error) {
	if len(s.passwordHash) == 0 {
		s.logger.Warn("[ResearcherAuth] Login attempted but researcher access is not configured")
		return nil, fmt.Errorf("%w: researcher access is disabled", apperrors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.Warn("[ResearcherAuth] Invalid researcher password")
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, expiresAt, err := s.jwtService.GenerateToken(ResearcherSubject)
	if err != nil {
		return nil, fmt.Errorf("generate researcher token: %w", err)
	}
	s.logger.Info("[ResearcherAuth] Researcher logged in", "expires_at", expiresAt)
	return &ResearcherToken{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken проверяет токен исследователя
func (s *ResearcherAuthService) ValidateToken(token string) (*auth.JWTCustomClaims, error) {
	claims, err := s.jwtService.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return claims, nil
}
