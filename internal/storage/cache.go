// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/velora-app/velora-tui/internal/api"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCacheMiss means the requested data has never been cached.
	ErrCacheMiss = errors.New("cache miss")
	// ErrDatabaseError wraps unexpected SQLite failures.
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS services (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    category_id INTEGER NOT NULL,
    price INTEGER NOT NULL,
    description TEXT,
    image TEXT,
    avg_rating REAL,
    duration_min INTEGER
);

CREATE INDEX IF NOT EXISTS idx_services_category ON services(category_id);

CREATE TABLE IF NOT EXISTS notifications (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT,
    read INTEGER NOT NULL,
    created_at TEXT
);

-- fetched tracks when each collection was last written, Unix seconds.
CREATE TABLE IF NOT EXISTS fetched (
    collection TEXT PRIMARY KEY,
    at INTEGER NOT NULL
) WITHOUT ROWID;
`

const initMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`

// Collection names used in the fetched table.
const (
	colCategories    = "categories"
	colServices      = "services"
	colNotifications = "notifications"
)

// =============================================================================
// CACHE
// =============================================================================

// Cache is the on-disk catalog cache. Safe for concurrent use.
type Cache struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the cache database under dataDir.
func Open(dataDir string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dataDir, "cache.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(initMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) markFetched(tx *sql.Tx, collection string) error {
	_, err := tx.Exec(
		"INSERT INTO fetched (collection, at) VALUES (?, ?) ON CONFLICT(collection) DO UPDATE SET at = excluded.at",
		collection, time.Now().Unix())
	return err
}

// fetchedAt returns when a collection was last written, or ErrCacheMiss.
func (c *Cache) fetchedAt(collection string) (time.Time, error) {
	var at int64
	err := c.db.QueryRow("SELECT at FROM fetched WHERE collection = ?", collection).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return time.Unix(at, 0), nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

// PutCategories replaces the cached category list.
func (c *Cache) PutCategories(ctx context.Context, categories []api.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM categories"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	for _, cat := range categories {
		if _, err := tx.Exec(
			"INSERT INTO categories (id, name) VALUES (?, ?)",
			cat.ID, cat.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	if err := c.markFetched(tx, colCategories); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return tx.Commit()
}

// Categories returns the cached category list and when it was fetched.
func (c *Cache) Categories(ctx context.Context) ([]api.Category, time.Time, error) {
	at, err := c.fetchedAt(colCategories)
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := c.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []api.Category
	for rows.Next() {
		var cat api.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, cat)
	}
	return out, at, rows.Err()
}

// =============================================================================
// SERVICES
// =============================================================================

// PutServices upserts services into the cache. Partial pages merge in; the
// full listing replaces whatever was there for those IDs.
func (c *Cache) PutServices(ctx context.Context, services []api.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for _, svc := range services {
		if _, err := tx.Exec(`
			INSERT INTO services (id, name, category_id, price, description, image, avg_rating, duration_min)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				category_id = excluded.category_id,
				price = excluded.price,
				description = excluded.description,
				image = excluded.image,
				avg_rating = excluded.avg_rating,
				duration_min = excluded.duration_min
		`, svc.ID, svc.Name, svc.CategoryID, svc.Price, svc.Description,
			svc.Image, svc.AvgRating, svc.DurationMin); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	if err := c.markFetched(tx, colServices); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return tx.Commit()
}

// Services returns cached services, optionally filtered by category
// (categoryID <= 0 returns all).
func (c *Cache) Services(ctx context.Context, categoryID int) ([]api.Service, time.Time, error) {
	at, err := c.fetchedAt(colServices)
	if err != nil {
		return nil, time.Time{}, err
	}

	query := "SELECT id, name, category_id, price, description, image, avg_rating, duration_min FROM services"
	args := []any{}
	if categoryID > 0 {
		query += " WHERE category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY id"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []api.Service
	for rows.Next() {
		var svc api.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.CategoryID, &svc.Price,
			&svc.Description, &svc.Image, &svc.AvgRating, &svc.DurationMin); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out = append(out, svc)
	}
	return out, at, rows.Err()
}

// Service returns one cached service by ID.
func (c *Cache) Service(ctx context.Context, id int) (*api.Service, error) {
	var svc api.Service
	err := c.db.QueryRowContext(ctx,
		"SELECT id, name, category_id, price, description, image, avg_rating, duration_min FROM services WHERE id = ?",
		id).Scan(&svc.ID, &svc.Name, &svc.CategoryID, &svc.Price,
		&svc.Description, &svc.Image, &svc.AvgRating, &svc.DurationMin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return &svc, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// PutNotifications replaces the cached notification list.
func (c *Cache) PutNotifications(ctx context.Context, notifications []api.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	for _, n := range notifications {
		read := 0
		if n.Read {
			read = 1
		}
		if _, err := tx.Exec(
			"INSERT INTO notifications (id, title, body, read, created_at) VALUES (?, ?, ?, ?, ?)",
			n.ID, n.Title, n.Body, read, n.CreatedAt); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	if err := c.markFetched(tx, colNotifications); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return tx.Commit()
}

// Notifications returns cached notifications, newest first.
func (c *Cache) Notifications(ctx context.Context) ([]api.Notification, time.Time, error) {
	at, err := c.fetchedAt(colNotifications)
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, title, body, read, created_at FROM notifications ORDER BY id DESC")
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []api.Notification
	for rows.Next() {
		var n api.Notification
		var read int
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &read, &n.CreatedAt); err != nil {
			return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		n.Read = read != 0
		out = append(out, n)
	}
	return out, at, rows.Err()
}

// MarkRead flips one cached notification to read. Best effort alongside the
// server call; a miss is not an error.
func (c *Cache) MarkRead(ctx context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Clear drops all cached data. Used on logout so the next account does not
// see the previous one's notifications.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"categories", "services", "notifications", "fetched"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	return tx.Commit()
}

// Stats summarizes what the cache holds.
type Stats struct {
	Categories    int
	Services      int
	Notifications int
	DatabaseSize  int64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	var s Stats
	c.db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&s.Categories)
	c.db.QueryRow("SELECT COUNT(*) FROM services").Scan(&s.Services)
	c.db.QueryRow("SELECT COUNT(*) FROM notifications").Scan(&s.Notifications)
	if info, err := os.Stat(c.path); err == nil {
		s.DatabaseSize = info.Size()
	}
	return s
}
