package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key-that-is-at-least-32-chars"

func newResearcherAuth(t *testing.T, password string) *ResearcherAuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService(testJWTSecret, time.Hour)
	require.NoError(t, err)

	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(h)
	}
	svc, err := NewResearcherAuthService(hash, jwtService, nil)
	require.NoError(t, err)
	return svc
}

func TestResearcherAuthService_Login(t *testing.T) {
	svc := newResearcherAuth(t, "rahasia-peneliti")

	token, err := svc.Login("rahasia-peneliti")
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleResearcher, claims.Role)
	assert.Equal(t, ResearcherSubject, claims.Subject)
}

func TestResearcherAuthService_Login_WrongPassword(t *testing.T) {
	svc := newResearcherAuth(t, "rahasia-peneliti")

	_, err := svc.Login("salah")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestResearcherAuthService_Login_Disabled(t *testing.T) {
	svc := newResearcherAuth(t, "")

	_, err := svc.Login("")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "Без хэша вход исследователя отключён")
}

func TestResearcherAuthService_InvalidHash(t *testing.T) {
	jwtService, err := auth.NewJWTService(testJWTSecret, time.Hour)
	require.NoError(t, err)

	_, err = NewResearcherAuthService("plain-text", jwtService, nil)

	assert.Error(t, err)
}

func TestResearcherAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := newResearcherAuth(t, "x")

	_, err := svc.ValidateToken("not.a.token")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
