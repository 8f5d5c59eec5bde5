package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var PostgresDB *gorm.DB

// InitPostgres opens the portfolio vector database named by POSTGRES_URI.
func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return fmt.Errorf("POSTGRES_URI: %w", ErrNotConfigured)
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// one interactive user; lookups are a handful of queries per render
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}

	PostgresDB = db
	return nil
}
