package database

import (
	"errors"
	"fmt"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yourusername/easynatorics-api/internal/pkg/logger"
)

// DefaultMigrationsSource - каталог миграций относительно рабочего каталога приложения
const DefaultMigrationsSource = "file://migrations"

// Журнал попыток пишется редко, большой пул не нужен
const (
	maxOpenConns    = 5
	maxIdleConns    = 2
	connMaxLifetime = time.Hour
)

// NewPostgresDB открывает подключение к PostgreSQL для журнала попыток.
// SQL логируется только на уровне Warn.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}

// MigrateDB применяет SQL-миграции журнала попыток. Пустой source - DefaultMigrationsSource.
func MigrateDB(db *gorm.DB, source string, log *logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}
	if source == "" {
		source = DefaultMigrationsSource
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database is unreachable before migration: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}
	m, err := migrateV4.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	log.Info("[Database] Applying migrations", "source", source)
	switch err := m.Up(); {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Info("[Database] Schema is up to date")
	case err != nil:
		return fmt.Errorf("migration up failed: %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Info("[Database] Migrations applied", "version", version, "dirty", dirty)
	}
	return nil
}

// Close закрывает пул соединений gorm
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
