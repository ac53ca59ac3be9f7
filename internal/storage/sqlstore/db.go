// Package sqlstore implements storage.Store on a relational database.
// SQLite (embedded, via modernc.org/sqlite) and PostgreSQL (via pgx) share
// one implementation; queries are written with ? placeholders and rebound
// for PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect selects the SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// Store is a relational storage.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects to the database. For SQLite, dsn is a file path; the parent
// directory is created and foreign keys and WAL mode are enabled. For
// PostgreSQL, dsn is a connection URL.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	connStr, err := connString(dialect, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driverName(), connStr)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	if dialect == SQLite {
		db.SetMaxOpenConns(1) // single writer
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(time.Hour)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s database: %w", dialect, err)
	}
	return &Store{db: db, dialect: dialect, now: time.Now}, nil
}

// New wraps an existing connection. Used by tests with a mocked driver.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func connString(dialect Dialect, dsn string) (string, error) {
	switch dialect {
	case SQLite:
		if dsn == "" {
			return "", errors.New("sqlite path is required")
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
		return dsn + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	case Postgres:
		if dsn == "" {
			return "", errors.New("postgres dsn is required")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unknown sql dialect %q", dialect)
	}
}

// RunMigrations applies all pending embedded migrations for the dialect.
// It uses its own connection, which is closed on return.
func RunMigrations(dialect Dialect, dsn string) error {
	connStr, err := connString(dialect, dsn)
	if err != nil {
		return err
	}
	db, err := sql.Open(dialect.driverName(), connStr)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", dialect, err)
	}

	var driver database.Driver
	switch dialect {
	case SQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case Postgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("creating migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		db.Close()
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a unique or primary key
// constraint failure from either backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *moderncsqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
