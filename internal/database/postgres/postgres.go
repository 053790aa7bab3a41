package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"ecoinsure/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectAndCreateDB connects to PostgreSQL, creating the target database
// and bootstrapping the schema on first run.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	defaultConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	defaultDB, err := sql.Open("postgres", defaultConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := defaultDB.QueryRow(checkQuery, cfg.DBName).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		if _, err := defaultDB.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBName)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
		}
		slog.Info("Database created", "name", cfg.DBName)
	}

	targetConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName)

	db, err := sqlx.Connect("postgres", targetConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if !exists {
		if err := executeSchema(db); err != nil {
			slog.Warn("Failed to execute schema.sql, manual schema setup may be required", "error", err)
		}
	}

	return db, nil
}

// executeSchema applies schema.sql statement by statement. Individual
// statement failures are logged and skipped so a partially applied schema
// can be repaired manually.
func executeSchema(db *sqlx.DB) error {
	locations := []string{"schema.sql", "./schema.sql", "/app/schema.sql"}

	var content []byte
	var err error
	for _, location := range locations {
		if content, err = os.ReadFile(location); err == nil {
			break
		}
	}
	if content == nil {
		return fmt.Errorf("schema.sql not found in any expected location: %v", locations)
	}

	successCount := 0
	for i, statement := range strings.Split(string(content), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" || strings.HasPrefix(statement, "--") {
			continue
		}
		if _, err := db.Exec(statement); err != nil {
			slog.Warn("Failed to execute schema statement", "index", i+1, "error", err)
			continue
		}
		successCount++
	}

	slog.Info("Schema execution completed", "statements", successCount)
	return nil
}

// RetryConnectOnFailed keeps retrying the database connection in the
// background until it succeeds.
func RetryConnectOnFailed(wait time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	for {
		if *db != nil {
			if err := (*db).Ping(); err == nil {
				slog.Info("Database connection is healthy, no retry needed")
				return
			}
		}

		newDB, err := ConnectAndCreateDB(cfg)
		if err == nil {
			*db = newDB
			slog.Info("Database retry connection succeeded")
			return
		}

		slog.Warn("Failed to reconnect to database", "error", err, "next_retry_in", wait)
		time.Sleep(wait)
	}
}
