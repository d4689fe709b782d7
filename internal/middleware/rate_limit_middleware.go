package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window
	MaxRequests int
	// Window - временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей в Redis
	KeyPrefix string
}

// RegistrationRateLimitConfig - лимит на регистрацию участников с одного IP.
// В классе несколько учеников часто сидят за одним NAT, поэтому лимит мягкий.
func RegistrationRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 30,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:register",
	}
}

// ResearcherLoginRateLimitConfig - строгий лимит на вход исследователя (защита от brute-force)
func ResearcherLoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:research:login",
	}
}

// TutorRateLimitConfig ограничивает обращения к AI-тьютору
func TutorRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 20,
		Window:      1 * time.Minute,
		KeyPrefix:   "rl:tutor",
	}
}

// rateCounter - подмножество redis.UniversalClient, нужное лимитеру
type rateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter создаёт middleware для rate limiting на основе Redis.
// Без клиента Redis лимиты не применяются.
type RateLimiter struct {
	counter rateCounter
	logger  *logger.Logger
}

// NewRateLimiter создает новый RateLimiter. redisClient может быть nil.
func NewRateLimiter(redisClient redis.UniversalClient, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewNop()
	}
	rl := &RateLimiter{logger: log}
	if redisClient != nil {
		rl.counter = redisClient
	}
	return rl
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP + endpoint path.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		rl.apply(c, cfg, fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, c.ClientIP(), path))
	}
}

// LimitByIP ограничивает количество запросов по IP (без привязки к path).
// Полезно для общего лимита на группу endpoints.
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.apply(c, cfg, fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP()))
	}
}

func (rl *RateLimiter) apply(c *gin.Context, cfg RateLimitConfig, key string) {
	if rl.counter == nil {
		c.Next()
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	count, err := rl.counter.Incr(ctx, key).Result()
	if err != nil {
		// При ошибке Redis пропускаем запрос (fail-open), но логируем
		rl.logger.Warn("[RateLimiter] Redis error, allowing request (fail-open)", "key", key, "error", err)
		c.Next()
		return
	}

	// Первый запрос в окне устанавливает TTL
	if count == 1 {
		if err := rl.counter.Expire(ctx, key, cfg.Window).Err(); err != nil {
			rl.logger.Warn("[RateLimiter] Failed to set TTL", "key", key, "error", err)
		}
	}

	remaining := cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	ttl, _ := rl.counter.TTL(ctx, key).Result()
	retryAfter := int(ttl.Seconds())
	if retryAfter <= 0 {
		retryAfter = int(cfg.Window.Seconds())
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", retryAfter))

	if int(count) > cfg.MaxRequests {
		rl.logger.Warn("[RateLimiter] Rate limit exceeded", "ip", c.ClientIP(), "key", key, "count", count, "limit", cfg.MaxRequests)

		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "Too many requests. Please try again later.",
			"error_type":  "rate_limited",
			"retry_after": retryAfter,
		})
		return
	}

	c.Next()
}
