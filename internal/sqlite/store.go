package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"itinerary-router/internal/database"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "itinerary.db"
	schemaVersion     = 1
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	scheduleItemRepo database.ScheduleItemRepository
	locationRepo     database.LocationRepository
	commentRepo      database.CommentRepository
}

// New creates a new SQLite store at the specified path.
// Use ":memory:" for an ephemeral store.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		log.Printf("Opening SQLite database at: %s", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to :memory: would get its own database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Foreign keys are required for comment cascade deletes
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.scheduleItemRepo = &scheduleItemRepository{store: store}
	store.locationRepo = &locationRepository{store: store}
	store.commentRepo = &commentRepository{store: store}

	return store, nil
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		return s.runMigrations(version)
	}

	return nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (1);

	-- Locations
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat REAL,
		lng REAL,
		category TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Schedule items (position is the dense 0..N-1 order within a day)
	CREATE TABLE IF NOT EXISTS schedule_items (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		day TEXT NOT NULL,
		position INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		location_id TEXT,
		custom_lat REAL,
		custom_lng REAL,
		flexible_time INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (location_id) REFERENCES locations(id) ON DELETE SET NULL
	);

	-- Comments on schedule items
	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (item_id) REFERENCES schedule_items(id) ON DELETE CASCADE
	);

	-- Indexes for common queries
	CREATE INDEX IF NOT EXISTS idx_items_plan_day ON schedule_items(plan_id, day, position);
	CREATE INDEX IF NOT EXISTS idx_comments_item ON comments(item_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("SQLite schema initialized (version %d)", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	// Add migrations here as schema evolves

	_, err := s.db.Exec("UPDATE schema_version SET version = ?", schemaVersion)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		// Checkpoint WAL before closing
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repository accessors
func (s *Store) ScheduleItems() database.ScheduleItemRepository { return s.scheduleItemRepo }
func (s *Store) Locations() database.LocationRepository         { return s.locationRepo }
func (s *Store) Comments() database.CommentRepository           { return s.commentRepo }
