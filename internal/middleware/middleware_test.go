package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) Get(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

type MockResearcherValidator struct {
	mock.Mock
}

func (m *MockResearcherValidator) ValidateToken(token string) (*auth.JWTCustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.JWTCustomClaims), args.Error(1)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	sessions := new(MockSessionResolver)
	sessions.On("Get", "good").Return(&entity.Session{Token: "good", ParticipantID: "P007"}, nil)
	sessions.On("Get", "expired").Return(nil, apperrors.ErrUnauthorized)
	sessions.On("Get", "broken").Return(nil, errors.New("redis: connection refused"))

	m := NewAuthMiddleware(sessions, nil, nil)
	r := gin.New()
	r.GET("/me", m.RequireSession(), func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		assert.True(t, ok)
		c.String(http.StatusOK, session.ParticipantID)
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"session header", SessionHeader, "good", http.StatusOK},
		{"authorization scheme", "Authorization", "Session good", http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"bearer is not a session", "Authorization", "Bearer good", http.StatusUnauthorized},
		{"expired", SessionHeader, "expired", http.StatusUnauthorized},
		{"store failure", SessionHeader, "broken", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := serve(r, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "P007", w.Body.String())
			}
		})
	}
}

func TestRequireResearcher(t *testing.T) {
	validator := new(MockResearcherValidator)
	validator.On("ValidateToken", "valid").Return(&auth.JWTCustomClaims{Role: auth.RoleResearcher}, nil)
	validator.On("ValidateToken", "forged").Return(nil, apperrors.ErrUnauthorized)

	m := NewAuthMiddleware(nil, validator, nil)
	r := gin.New()
	r.GET("/research", m.RequireResearcher(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		auth       string
		wantStatus int
	}{
		{"Bearer valid", http.StatusNoContent},
		{"bearer valid", http.StatusNoContent},
		{"Bearer forged", http.StatusUnauthorized},
		{"valid", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/research", nil)
		if tt.auth != "" {
			req.Header.Set("Authorization", tt.auth)
		}
		assert.Equal(t, tt.wantStatus, serve(r, req).Code, "Authorization=%q", tt.auth)
	}
}

func TestParamMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/m/:concept/:index", ExtractConcept("concept"), ExtractIntParam("index", IndexKey), func(c *gin.Context) {
		assert.Equal(t, entity.ConceptPermutation, c.MustGet(ConceptKey))
		assert.Equal(t, 2, c.MustGet(IndexKey))
		c.Status(http.StatusOK)
	})
	r.GET("/t/:kind", ExtractTestKind("kind"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/s/:phase", ExtractSurveyPhase("phase"), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/m/permutation/2", http.StatusOK},
		{"/m/geometry/2", http.StatusNotFound},
		{"/m/permutation/-1", http.StatusBadRequest},
		{"/m/permutation/abc", http.StatusBadRequest},
		{"/t/pre", http.StatusOK},
		{"/t/mid", http.StatusNotFound},
		{"/s/post", http.StatusOK},
		{"/s/later", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.wantStatus, w.Code, tt.path)
	}
}

// fakeCounter эмулирует INCR/EXPIRE/TTL Redis
type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounter) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(30*time.Second, nil)
}

func TestRateLimiter_Limit(t *testing.T) {
	rl := NewRateLimiter(nil, nil)
	rl.counter = &fakeCounter{counts: make(map[string]int64)}
	cfg := RateLimitConfig{MaxRequests: 2, Window: time.Minute, KeyPrefix: "rl:test"}

	r := gin.New()
	r.POST("/register", rl.Limit(cfg), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/register", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodPost, "/register", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "Третий запрос в окне должен быть отклонён")
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_FailOpenAndDisabled(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 1, Window: time.Minute, KeyPrefix: "rl:test"}

	failing := NewRateLimiter(nil, nil)
	failing.counter = &fakeCounter{err: errors.New("redis down")}
	disabled := NewRateLimiter(nil, nil)

	for name, rl := range map[string]*RateLimiter{"fail-open": failing, "disabled": disabled} {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", rl.LimitByIP(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
			for i := 0; i < 3; i++ {
				assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
			}
		})
	}
}
