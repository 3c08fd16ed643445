package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitecrawl/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "sitecrawl.db"

// storedTimeFormat keeps a fixed-width fraction so started_at sorts as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a requested crawl does not exist.
var ErrNotFound = errors.New("crawl not found")

// CrawlDB provides SQLite-based storage for crawl history.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a crawl first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	// The foreign_keys pragma is applied to every new connection.
	dsn := dbPath + "?mode=rw&_pragma=foreign_keys(1)"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		host TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		pages_fetched INTEGER NOT NULL DEFAULT 0,
		url_count INTEGER NOT NULL DEFAULT 0,
		failure_count INTEGER NOT NULL DEFAULT 0,
		cancelled INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_host ON crawls(host);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	CREATE TABLE IF NOT EXISTS crawl_urls (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		PRIMARY KEY (crawl_id, url)
	);

	CREATE TABLE IF NOT EXISTS crawl_failures (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (crawl_id, url)
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawlResult stores a finished crawl and returns its ID.
// The crawl row, its URLs and its failures are written in one transaction.
func (cdb *CrawlDB) SaveCrawlResult(ctx context.Context, result *model.CrawlResult) (int64, error) {
	if result == nil {
		return 0, errors.New("cannot save nil crawl result")
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after a successful commit
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (seed, host, started_at, duration_ns, pages_fetched, url_count, failure_count, cancelled)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Seed,
		result.Host,
		result.StartedAt.UTC().Format(storedTimeFormat),
		int64(result.Duration),
		result.PagesFetched,
		len(result.URLs),
		len(result.Failures),
		boolToInt(result.Cancelled),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get crawl id: %w", err)
	}

	if len(result.URLs) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO crawl_urls (crawl_id, url) VALUES (?, ?)")
		if err != nil {
			return 0, fmt.Errorf("failed to prepare url insert: %w", err)
		}
		defer stmt.Close()

		for _, u := range result.URLs {
			if _, err := stmt.ExecContext(ctx, id, u); err != nil {
				return 0, fmt.Errorf("failed to insert url: %w", err)
			}
		}
	}

	if len(result.Failures) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO crawl_failures (crawl_id, url, reason) VALUES (?, ?, ?)")
		if err != nil {
			return 0, fmt.Errorf("failed to prepare failure insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range result.Failures {
			if _, err := stmt.ExecContext(ctx, id, f.URL, f.Reason); err != nil {
				return 0, fmt.Errorf("failed to insert failure: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}
	return id, nil
}

// ListHosts returns every host with at least one stored crawl, sorted.
func (cdb *CrawlDB) ListHosts(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, "SELECT DISTINCT host FROM crawls ORDER BY host")
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}
	return hosts, rows.Err()
}

// GetCrawlHistory returns the stored crawls of a host, newest first.
// A limit of zero or less returns every crawl.
func (cdb *CrawlDB) GetCrawlHistory(ctx context.Context, host string, limit int) ([]model.CrawlSummary, error) {
	query := `
	SELECT id, seed, host, started_at, duration_ns, pages_fetched, url_count, failure_count, cancelled
	FROM crawls
	WHERE host = ?
	ORDER BY started_at DESC, id DESC
	`
	args := []any{host}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl history: %w", err)
	}
	defer rows.Close()

	var results []model.CrawlSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, summary)
	}
	return results, rows.Err()
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSummary reads one crawls row.
func scanSummary(row rowScanner) (model.CrawlSummary, error) {
	var (
		summary   model.CrawlSummary
		startedAt string
		duration  int64
		cancelled int64
	)
	err := row.Scan(
		&summary.ID,
		&summary.Seed,
		&summary.Host,
		&startedAt,
		&duration,
		&summary.PagesFetched,
		&summary.URLCount,
		&summary.FailureCount,
		&cancelled,
	)
	if err != nil {
		return model.CrawlSummary{}, fmt.Errorf("failed to scan crawl: %w", err)
	}
	summary.StartedAt = parseTimestamp(startedAt)
	summary.Duration = time.Duration(duration)
	summary.Cancelled = cancelled != 0
	return summary, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetCrawlResult loads a stored crawl with its URLs and failures.
// It returns ErrNotFound when no crawl has the given ID.
func (cdb *CrawlDB) GetCrawlResult(ctx context.Context, id int64) (*model.CrawlResult, error) {
	row := cdb.db.QueryRowContext(ctx, `
	SELECT id, seed, host, started_at, duration_ns, pages_fetched, url_count, failure_count, cancelled
	FROM crawls
	WHERE id = ?
	`, id)

	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	result := &model.CrawlResult{
		Seed:         summary.Seed,
		Host:         summary.Host,
		URLs:         []string{},
		PagesFetched: summary.PagesFetched,
		StartedAt:    summary.StartedAt,
		Duration:     summary.Duration,
		Cancelled:    summary.Cancelled,
	}

	urls, err := cdb.db.QueryContext(ctx, "SELECT url FROM crawl_urls WHERE crawl_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl urls: %w", err)
	}
	defer urls.Close()
	for urls.Next() {
		var u string
		if err := urls.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		result.URLs = append(result.URLs, u)
	}
	if err := urls.Err(); err != nil {
		return nil, err
	}
	// Byte order, so model.CrawlResult.Contains can binary search.
	sort.Strings(result.URLs)

	failures, err := cdb.db.QueryContext(ctx, "SELECT url, reason FROM crawl_failures WHERE crawl_id = ? ORDER BY url", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl failures: %w", err)
	}
	defer failures.Close()
	for failures.Next() {
		var f model.PageFailure
		if err := failures.Scan(&f.URL, &f.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		result.Failures = append(result.Failures, f)
	}
	if err := failures.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetRecentCrawlResults loads up to n of the newest crawls of a host,
// newest first.
func (cdb *CrawlDB) GetRecentCrawlResults(ctx context.Context, host string, n int) ([]*model.CrawlResult, error) {
	if n <= 0 {
		return nil, nil
	}

	history, err := cdb.GetCrawlHistory(ctx, host, n)
	if err != nil {
		return nil, err
	}

	results := make([]*model.CrawlResult, 0, len(history))
	for _, h := range history {
		r, err := cdb.GetCrawlResult(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// DeleteCrawl removes a stored crawl with its URLs and failures.
func (cdb *CrawlDB) DeleteCrawl(ctx context.Context, id int64) error {
	res, err := cdb.db.ExecContext(ctx, "DELETE FROM crawls WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete crawl: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete crawl: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
