package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/easynatorics-api/internal/content"
	"github.com/yourusername/easynatorics-api/internal/domain/entity"
	"github.com/yourusername/easynatorics-api/internal/domain/repository"
	apperrors "github.com/yourusername/easynatorics-api/internal/pkg/errors"
	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 6 * time.Hour
)

// Config - параметры сервиса тьютора
type Config struct {
	// Timeout ограничивает каждый запрос к модели
	Timeout time.Duration
	// CacheTTL - время жизни закешированных объяснений
	CacheTTL time.Duration
}

// Service реализует content.Source. Без провайдера работает в демо-режиме.
type Service struct {
	provider Provider
	bank     *content.Bank
	cache    repository.CacheRepository
	config   Config
	logger   *logger.Logger
}

// NewService создаёт сервис. provider и cache могут быть nil.
func NewService(provider Provider, bank *content.Bank, cache repository.CacheRepository, cfg Config, log *logger.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		provider: provider,
		bank:     bank,
		cache:    cache,
		config:   cfg,
		logger:   log,
	}
}

// DemoMode сообщает, что генерация отключена
func (s *Service) DemoMode() bool {
	return s.provider == nil
}

// Explanation возвращает объяснение темы для уровня
func (s *Service) Explanation(ctx context.Context, concept entity.Concept, level entity.Level) string {
	if s.DemoMode() {
		return s.bank.Explanation(ctx, concept, level)
	}

	key := fmt.Sprintf("explanation:%s:%s", concept, level)
	if cached, ok := s.cached(ctx, key); ok {
		return cached
	}

	module := s.bank.Module(concept)
	text, err := s.complete(ctx, ChatRequest{
		System: "Anda tutor matematika yang sabar dan jelas.",
		User: fmt.Sprintf("Jelaskan %s untuk siswa SMA level %s dalam bahasa Indonesia.\n"+
			"Format: judul, konsep inti, analogi sederhana, contoh, tips. Maksimal 400 kata.", module.Name, level),
		Temperature: 0.7,
		MaxTokens:   800,
	})
	if err != nil {
		s.logger.Warn("[Tutor] Explanation generation failed, using static content", "concept", concept, "level", level, "error", err)
		return s.bank.Explanation(ctx, concept, level)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.config.CacheTTL); err != nil {
			s.logger.Warn("[Tutor] Failed to cache explanation", "key", key, "error", err)
		}
	}
	return text
}

// PracticeQuestions генерирует count задач; некорректный ответ модели заменяется демо-задачами
func (s *Service) PracticeQuestions(ctx context.Context, concept entity.Concept, level entity.Level, count int) []entity.PracticeQuestion {
	if s.DemoMode() {
		return s.bank.PracticeQuestions(ctx, concept, level, count)
	}

	module := s.bank.Module(concept)
	raw, err := s.complete(ctx, ChatRequest{
		System: "Guru matematika kreatif. Kembalikan JSON valid.",
		User: fmt.Sprintf(`Buat %d soal %s tingkat %s untuk SMA dalam bahasa Indonesia.
Format JSON:
{"questions": [{"question": "teks soal", "options": ["A", "B", "C", "D"], "answer": "jawaban benar", "explanation": "penjelasan", "hint": "petunjuk"}]}
Jawaban harus sama persis dengan salah satu opsi. Soal kontekstual, menarik, dan jelas.`, count, module.Name, level),
		Temperature: 0.8,
		MaxTokens:   2000,
	})
	if err != nil {
		s.logger.Warn("[Tutor] Question generation failed, using demo questions", "concept", concept, "level", level, "error", err)
		return s.bank.PracticeQuestions(ctx, concept, level, count)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		s.logger.Warn("[Tutor] Generated questions rejected, using demo questions", "concept", concept, "error", err)
		return s.bank.PracticeQuestions(ctx, concept, level, count)
	}
	if count > 0 && len(questions) > count {
		questions = questions[:count]
	}
	return questions
}

// Ask отвечает на вопрос участника в контексте темы
func (s *Service) Ask(ctx context.Context, concept entity.Concept, question string) string {
	if s.DemoMode() {
		return s.bank.Ask(ctx, concept, question)
	}

	module := s.bank.Module(concept)
	answer, err := s.complete(ctx, ChatRequest{
		System: "Anda tutor matematika ramah dan jelas.",
		User: fmt.Sprintf("Konteks: Konsep %s\nPertanyaan: %s\n"+
			"Berikan penjelasan mudah, analogi, contoh konkret, langkah sederhana.\n"+
			"Format markdown dengan emoji. Maksimal 300 kata.", module.Name, question),
		Temperature: 0.7,
		MaxTokens:   600,
	})
	if err != nil {
		s.logger.Warn("[Tutor] Tutor answer failed", "concept", concept, "error", err)
		return fmt.Sprintf("🤖 **AI Tutor:** Tidak dapat menghubungi AI. Contoh: Untuk %s, coba buat diagram pohon.", module.Title)
	}
	return "🤖 **AI Tutor:**\n\n" + answer
}

func (s *Service) complete(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Complete(ctx, req)
	s.logger.Debug("[Tutor] Completion finished", "model", s.provider.ModelID(), "duration_ms", time.Since(start).Milliseconds(), "ok", err == nil)
	return text, err
}

func (s *Service) cached(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	text, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("[Tutor] Cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	return text, true
}
