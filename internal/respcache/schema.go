package respcache

import (
	"context"
	_ "embed"
	"fmt"

	"qualigap/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes;
// caches written with another version are discarded and rebuilt.
const schemaVersion = 1

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	err = c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		c.logger.Info("rebuilding response cache after schema change",
			logging.Int("found_version", version),
			logging.Int("expected_version", schemaVersion))
		return c.rebuildSchema(ctx)
	}
	return nil
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (c *Cache) rebuildSchema(ctx context.Context) error {
	for _, stmt := range []string{"DROP TABLE IF EXISTS responses", "DROP TABLE IF EXISTS schema_version"} {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop stale schema: %w", err)
		}
	}
	return c.createSchema(ctx)
}
