package db

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// DSN is the MySQL connection string
	DSN string
}

// Connect establishes a connection to the TestLink database.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	// Default to silent logging unless LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(
		mysql.Open(cfg.DSN),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
