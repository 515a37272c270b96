package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens a Postgres connection pool, retrying while the database
// container comes up.
func Connect(dsn string, logger *slog.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		logger.Info("connecting to database", "attempt", i, "max", maxRetries)
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
			db.SetConnMaxLifetime(5 * time.Minute)
			logger.Info("database connected")
			return db, nil
		}
		logger.Warn("database not ready, waiting 2 seconds", "error", err)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("connect to postgres: %w", err)
}
