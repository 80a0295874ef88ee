package cache

// schemaSQL defines the SQLite schema for the cache database.
// Tables:
//   - generations: the last render of each header (hash pair, output path, time)
const schemaSQL = `
CREATE TABLE IF NOT EXISTS generations (
    header_path TEXT PRIMARY KEY,
    header_hash TEXT NOT NULL,
    render_hash TEXT NOT NULL,
    output_path TEXT NOT NULL,
    generated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generations_output ON generations(output_path);
`

// initSchema creates the database tables and indexes if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
