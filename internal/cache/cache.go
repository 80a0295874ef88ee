// Package cache provides a SQLite-backed record of previous generations.
// The cache is stored in .bindgen/cache.db and remembers, per header, the
// hash pair and output path of the last successful render so an unchanged
// header rendered through an unchanged template is skipped.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileName is the database file name inside the cache directory.
const FileName = "cache.db"

// Cache manages the generation cache database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in dir, creating dir if needed.
// It initializes the schema if the database is new.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	dbPath := filepath.Join(dir, FileName)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// WAL lets a concurrent reader see the last committed generation
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Clear removes every recorded generation.
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM generations")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Stats returns cache statistics.
type Stats struct {
	Generations int64
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&stats.Generations)
	if err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}

	return &stats, nil
}
