package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/database/migrations"
)

var DB *sqlx.DB

// InitDB opens the Postgres pool, verifies it and optionally applies the embedded migrations.
func InitDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error open connecting: %w", err)
	}

	maxOpen := cfg.DBMaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		zap.L().Info("database migrations applied")
	}

	DB = db
	zap.L().Info("connected to the database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return db, nil
}

func CloseDB() error {
	if DB != nil {
		if err := DB.Close(); err != nil {
			return fmt.Errorf("error closing database connection: %w", err)
		}
		zap.L().Info("database connection closed")
	}
	return nil
}
