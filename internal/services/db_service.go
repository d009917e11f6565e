package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/rxtech-lab/lock-launchpad/internal/logger"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DBService handles database connection and lifecycle management
type DBService interface {
	GetDB() *gorm.DB
	Close() error
}

type dbService struct {
	db *gorm.DB
}

// NewSqliteDBService opens (and creates if needed) a SQLite database. ":memory:" is supported for tests.
func NewSqliteDBService(dbPath string) (DBService, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.NewGormLogger(log.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if dbPath == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// each new connection would open a separate empty database
		sqlDB.SetMaxOpenConns(1)
	}
	return newDBService(db)
}

// NewPostgresDBService connects to the database used by the hosted streamable-http server.
func NewPostgresDBService(dsn string) (DBService, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres url is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(log.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return newDBService(db)
}

func newDBService(db *gorm.DB) (DBService, error) {
	service := &dbService{db: db}
	if err := service.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return service, nil
}

// GetDB returns the underlying GORM database instance
func (s *dbService) GetDB() *gorm.DB {
	return s.db
}

func (s *dbService) migrate() error {
	return s.db.AutoMigrate(
		&models.Chain{},
		&models.TransactionSession{},
		&models.LockDeployment{},
		&models.OwnedEvent{},
	)
}

// Close closes the database connection
func (s *dbService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
