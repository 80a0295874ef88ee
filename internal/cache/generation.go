package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/bindgen/internal/extract"
)

// Entry is the record of one generation.
type Entry struct {
	HeaderPath  string
	HeaderHash  string
	RenderHash  string
	OutputPath  string
	GeneratedAt time.Time
}

// HashPair returns the entry hashes as "header:render".
func (e Entry) HashPair() string {
	return extract.FormatHashPair(e.HeaderHash, e.RenderHash)
}

// Change says which inputs of a generation differ from the recorded one.
type Change struct {
	New    bool
	Header bool
	Render bool
	Output bool
}

// Any reports whether the header needs to be rendered again.
func (c Change) Any() bool {
	return c.New || c.Header || c.Render || c.Output
}

func (c Change) String() string {
	switch {
	case c.New:
		return "never generated"
	case c.Header:
		return "header changed"
	case c.Render:
		return "template or options changed"
	case c.Output:
		return "output path changed"
	default:
		return "unchanged"
	}
}

// Record stores e, replacing any previous entry for the same header.
func (c *Cache) Record(ctx context.Context, e Entry) error {
	generatedAt := e.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO generations (header_path, header_hash, render_hash, output_path, generated_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.HeaderPath, e.HeaderHash, e.RenderHash, e.OutputPath, generatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record generation %s: %w", e.HeaderPath, err)
	}
	return nil
}

// Get retrieves the entry for a header.
// Returns sql.ErrNoRows if the header has never been generated.
func (c *Cache) Get(ctx context.Context, headerPath string) (*Entry, error) {
	var entry Entry
	var generatedAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT header_path, header_hash, render_hash, output_path, generated_at
		FROM generations WHERE header_path = ?`,
		headerPath).Scan(&entry.HeaderPath, &entry.HeaderHash, &entry.RenderHash, &entry.OutputPath, &generatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get generation %s: %w", headerPath, err)
	}
	entry.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	return &entry, nil
}

// Compare reports how a prospective generation differs from the recorded one.
// hashPair is "header:render" as built by extract.FormatHashPair.
func (c *Cache) Compare(ctx context.Context, headerPath, hashPair, outputPath string) (Change, error) {
	entry, err := c.Get(ctx, headerPath)
	if errors.Is(err, sql.ErrNoRows) {
		return Change{New: true}, nil
	}
	if err != nil {
		return Change{}, err
	}

	header, render := extract.CompareHashes(entry.HashPair(), hashPair)
	return Change{
		Header: header,
		Render: render,
		Output: entry.OutputPath != outputPath,
	}, nil
}

// All retrieves every entry ordered by header path.
func (c *Cache) All(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT header_path, header_hash, render_hash, output_path, generated_at
		FROM generations ORDER BY header_path`)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var generatedAt string
		err := rows.Scan(&entry.HeaderPath, &entry.HeaderHash, &entry.RenderHash, &entry.OutputPath, &generatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entry.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for a header.
func (c *Cache) Delete(ctx context.Context, headerPath string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM generations WHERE header_path = ?", headerPath)
	if err != nil {
		return fmt.Errorf("delete generation %s: %w", headerPath, err)
	}
	return nil
}

// Prune removes entries whose header no longer exists on disk according to
// exists. It returns the number of entries removed.
func (c *Cache) Prune(ctx context.Context, exists func(path string) bool) (int, error) {
	entries, err := c.All(ctx)
	if err != nil {
		return 0, err
	}

	var pruned int
	for _, entry := range entries {
		if !exists(entry.HeaderPath) {
			if err := c.Delete(ctx, entry.HeaderPath); err != nil {
				return pruned, err
			}
			pruned++
		}
	}

	return pruned, nil
}
