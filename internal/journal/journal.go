// Package journal records caught regions in a SQL database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"pyrt/internal/exc"
)

const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Entry is one caught region.
type Entry struct {
	ID       int64
	Region   string
	Mode     string
	Status   int
	Message  string
	CaughtAt time.Time
}

type Journal struct {
	db     *sql.DB
	driver string
}

func idColumn(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "INTEGER PRIMARY KEY AUTOINCREMENT", nil
	case DriverMySQL:
		return "BIGINT AUTO_INCREMENT PRIMARY KEY", nil
	case DriverPostgres:
		return "BIGSERIAL PRIMARY KEY", nil
	}
	return "", fmt.Errorf("journal: unsupported driver %q", driver)
}

// Open connects to the database and creates the journal table if needed.
func Open(ctx context.Context, driver, dsn string) (*Journal, error) {
	id, err := idColumn(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open connection: %w", err)
	}
	if driver == DriverSQLite {
		// one connection keeps an in-memory database alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to ping database: %w", err)
	}

	j := &Journal{db: db, driver: driver}
	schema := `CREATE TABLE IF NOT EXISTS caught_regions (
	id ` + id + `,
	region VARCHAR(255) NOT NULL,
	mode VARCHAR(32) NOT NULL,
	status INTEGER NOT NULL,
	message TEXT NOT NULL,
	caught_at BIGINT NOT NULL
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create table: %w", err)
	}
	return j, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record stores e and returns its id. A zero CaughtAt is set to now.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	if e.CaughtAt.IsZero() {
		e.CaughtAt = time.Now()
	}
	query := `INSERT INTO caught_regions (region, mode, status, message, caught_at) VALUES (?, ?, ?, ?, ?)`
	args := []any{e.Region, e.Mode, e.Status, e.Message, e.CaughtAt.UnixMilli()}

	if j.driver == DriverPostgres {
		var id int64
		err := j.db.QueryRowContext(ctx, rebind(j.driver, query)+" RETURNING id", args...).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("journal: insert failed: %w", err)
		}
		return id, nil
	}
	result, err := j.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("journal: insert failed: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := rebind(j.driver, `SELECT id, region, mode, status, message, caught_at FROM caught_regions ORDER BY id DESC LIMIT ?`)
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.ID, &e.Region, &e.Mode, &e.Status, &e.Message, &at); err != nil {
			return nil, fmt.Errorf("journal: scan failed: %w", err)
		}
		e.CaughtAt = time.UnixMilli(at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Hook returns a catch hook that records every caught region. Failures are logged,
// never raised.
func (j *Journal) Hook(mode string) func(name string, ctx *exc.Context) {
	return func(name string, ctx *exc.Context) {
		_, err := j.Record(context.Background(), Entry{
			Region:  name,
			Mode:    mode,
			Status:  ctx.StatusCode,
			Message: ctx.Text(),
		})
		if err != nil {
			slog.Warn("could not journal caught region", "region", name, "error", err)
		}
	}
}

func (j *Journal) Close() error {
	return j.db.Close()
}
