package respcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"qualigap/internal/logging"
)

// Cache stores provider response bodies in a SQLite database keyed by URL.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Stats summarizes cache contents.
type Stats struct {
	Path       string    `json:"path"`
	Entries    int64     `json:"entries"`
	BodyBytes  int64     `json:"body_bytes"`
	FileBytes  int64     `json:"file_bytes"`
	OldestFill time.Time `json:"oldest_fetch,omitzero"`
	NewestFill time.Time `json:"newest_fetch,omitzero"`
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the cache database at path, creating parent
// directories as needed.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "respcache"),
		now:    time.Now,
	}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached body for key, if present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	err := c.db.QueryRowContext(ensureContext(ctx), "SELECT body FROM responses WHERE url = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cached response: %w", err)
	}
	return body, true, nil
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, body []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key cannot be empty")
	}
	fetchedAt := c.now().UTC().Format(time.RFC3339Nano)
	err := c.execWithRetry(ctx,
		`INSERT INTO responses (url, body, size_bytes, fetched_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(url) DO UPDATE SET body = excluded.body, size_bytes = excluded.size_bytes, fetched_at = excluded.fetched_at`,
		key, body, len(body), fetchedAt)
	if err != nil {
		return fmt.Errorf("store cached response: %w", err)
	}
	c.logger.Debug("cached provider response",
		logging.String("url", key),
		logging.Int("size_bytes", len(body)))
	return nil
}

// Stats reports entry counts, sizes, and fetch time bounds.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: c.path}
	var oldest, newest sql.NullString
	err := c.db.QueryRowContext(ensureContext(ctx),
		"SELECT COUNT(1), COALESCE(SUM(size_bytes), 0), MIN(fetched_at), MAX(fetched_at) FROM responses",
	).Scan(&stats.Entries, &stats.BodyBytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	stats.OldestFill = parseTimestamp(oldest)
	stats.NewestFill = parseTimestamp(newest)
	for _, name := range []string{c.path, c.path + "-wal"} {
		if info, err := os.Stat(name); err == nil {
			stats.FileBytes += info.Size()
		}
	}
	return stats, nil
}

// Clear removes every cached response and returns the number removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ensureContext(ctx), func() error {
		res, err := c.db.ExecContext(ensureContext(ctx), "DELETE FROM responses")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	if _, err := c.db.ExecContext(ensureContext(ctx), "VACUUM"); err != nil {
		logging.WarnWithContext(c.logger, "cache vacuum failed", "cache_vacuum_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "database file keeps its previous size"))
	}
	c.logger.Debug("cleared response cache", logging.Int("removed", int(removed)))
	return removed, nil
}

func parseTimestamp(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (c *Cache) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx, query, args...)
		return err
	})
}
