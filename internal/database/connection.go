package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes the database connection. A non-empty databaseURL
// selects Postgres; otherwise a local sqlite file under dataDir is used.
func Connect(databaseURL, dataDir string) error {
	if databaseURL != "" {
		db, err := sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		DB = db
		// Postgres schemas are provisioned by migrations, not on connect.
		return nil
	}

	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "srs.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			interval INTEGER DEFAULT 1,
			repetitions INTEGER DEFAULT 0,
			easiness REAL DEFAULT 2.5,
			difficulty REAL DEFAULT 0.3,
			next INTEGER DEFAULT 0,
			last_reviewed TIMESTAMP,
			correct INTEGER DEFAULT 0,
			incorrect INTEGER DEFAULT 0,
			streak INTEGER DEFAULT 0,
			learned_interval INTEGER,
			learned_confidence REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cards table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS review_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			recalled BOOLEAN NOT NULL,
			response_time_ms INTEGER NOT NULL,
			interval_used INTEGER NOT NULL,
			source TEXT NOT NULL,
			baseline_interval INTEGER NOT NULL,
			learned_interval INTEGER,
			perceived_difficulty REAL DEFAULT 0,
			FOREIGN KEY (card_id) REFERENCES cards(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_events table: %w", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS learner_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			mode TEXT DEFAULT 'baseline',
			daily_goal INTEGER DEFAULT 20,
			total_reviews INTEGER DEFAULT 0,
			total_correct INTEGER DEFAULT 0,
			current_streak INTEGER DEFAULT 0,
			best_streak INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learner_profiles table: %w", err)
	}

	return nil
}
