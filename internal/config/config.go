package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	AI         AIConfig         `mapstructure:"ai"`
	Session    SessionConfig    `mapstructure:"session"`
	Researcher ResearcherConfig `mapstructure:"researcher"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // секунды
	WriteTimeout int    `mapstructure:"write_timeout"` // секунды
}

// StorageConfig - каталог с JSON-файлами участников
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL.
// База используется только для журнала попыток и может быть отключена.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Пустой список и пустой Addr отключают Redis.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// Enabled сообщает, задан ли адрес Redis
func (r RedisConfig) Enabled() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// AIConfig - настройки генерации контента через OpenRouter.
// Пустой APIKey включает демо-режим со статическим контентом.
type AIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	Referer    string `mapstructure:"referer"`
	Title      string `mapstructure:"title"`
	// CacheTTLMinutes - время жизни закешированных объяснений
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes"`
}

// Timeout возвращает таймаут запроса к модели
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// SessionConfig - время жизни сессии участника
type SessionConfig struct {
	TTLMinutes       int `mapstructure:"ttl_minutes"`
	SweepIntervalSec int `mapstructure:"sweep_interval_sec"`
}

// TTL возвращает время жизни сессии
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// ResearcherConfig - доступ к разделу исследователя.
// Пустой PasswordHash отключает вход.
type ResearcherConfig struct {
	PasswordHash  string `mapstructure:"password_hash"`
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// LoggingConfig - режим логгера: development или production
type LoggingConfig struct {
	Mode string `mapstructure:"mode"`
}

// CORSConfig - разрешённые источники для браузерного клиента
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("storage.data_dir", "research_data")
	vip.SetDefault("database.enabled", false)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	vip.SetDefault("ai.model", "deepseek/deepseek-chat")
	vip.SetDefault("ai.timeout_sec", 10)
	vip.SetDefault("ai.referer", "https://easynatorics.app")
	vip.SetDefault("ai.title", "EasyNatorics")
	vip.SetDefault("ai.cache_ttl_minutes", 360)
	vip.SetDefault("session.ttl_minutes", 240)
	vip.SetDefault("session.sweep_interval_sec", 300)
	vip.SetDefault("researcher.token_ttl_hours", 8)
	vip.SetDefault("logging.mode", "development")
	vip.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	// 1. Значения по умолчанию
	setDefaults(vip)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("storage.data_dir", "DATA_DIR")

	vip.BindEnv("database.enabled", "DATABASE_ENABLED")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("ai.api_key", "DEEPSEEK_API_KEY")
	vip.BindEnv("ai.base_url", "AI_BASE_URL")
	vip.BindEnv("ai.model", "AI_MODEL")
	vip.BindEnv("ai.timeout_sec", "AI_TIMEOUT_SEC")

	vip.BindEnv("session.ttl_minutes", "SESSION_TTL_MINUTES")

	vip.BindEnv("researcher.password_hash", "RESEARCHER_PASSWORD_HASH")
	vip.BindEnv("researcher.jwt_secret", "RESEARCHER_JWT_SECRET")
	vip.BindEnv("researcher.token_ttl_hours", "RESEARCHER_TOKEN_TTL_HOURS")

	vip.BindEnv("logging.mode", "LOG_MODE")

	// 3. Файл конфигурации необязателен: всё можно задать переменными окружения
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required (check DATA_DIR env var)")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session.ttl_minutes must be positive")
	}
	if c.AI.TimeoutSec <= 0 {
		return fmt.Errorf("ai.timeout_sec must be positive")
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "") {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if c.Researcher.PasswordHash != "" && len(c.Researcher.JWTSecret) < 32 {
		return fmt.Errorf("researcher.jwt_secret must be at least 32 characters when researcher access is enabled (check RESEARCHER_JWT_SECRET env var)")
	}
	if c.Researcher.PasswordHash != "" && c.Researcher.TokenTTLHours <= 0 {
		return fmt.Errorf("researcher.token_ttl_hours must be positive")
	}
	return nil
}
