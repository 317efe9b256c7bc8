package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

var DB *gorm.DB

// Clock is the time source for timers and derived scores
var Clock timetrack.Clock = timetrack.SystemClock{}

// Initialize opens the database at path, runs migrations and installs it
// as the package connection
func Initialize(path string, debug bool) error {
	db, err := Open(path, debug)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// gormLogConfig reports slow queries and failures in debug mode
func gormLogConfig() logger.Config {
	return logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	}
}

// Open opens a SQLite database and migrates the schema
func Open(path string, debug bool) (*gorm.DB, error) {
	if err := ensureDir(path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	gormLogger := logger.Default.LogMode(logger.Silent) // Quiet by default
	if debug {
		gormLogger = logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), gormLogConfig())
	}

	// foreign keys are off by default in SQLite
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func ensureDir(path string) error {
	if strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(strings.TrimPrefix(path, "file:"))
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// runMigrations creates/updates the database schema
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.Project{},
		&models.Personnel{},
		&models.Task{},
		&models.TimeEntry{},
		&models.BillingAccount{},
		&models.User{},
	)
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		DB = nil
		return sqlDB.Close()
	}
	return nil
}

// translate maps gorm failures onto application errors
func translate(err error, resource string, id interface{}, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource, id)
	}
	return apperrors.NewDatabaseError(operation, err)
}
