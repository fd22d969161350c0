package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/fuel-alert/internal/cycle"
)

// PostgresBackend persists both documents in two small tables,
// replacing each wholesale inside a transaction on save. The
// whole-document contract matches the other backends; at five cities
// and small subscriber lists a diff-based scheme buys nothing.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend opens a connection pool for the given DSN.
func NewPostgresBackend(dsn string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

// NewPostgresBackendWithDB wraps an existing handle, used by tests.
func NewPostgresBackendWithDB(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// Migrate creates the backing tables if they do not exist.
func (b *PostgresBackend) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS city_state (
			city TEXT PRIMARY KEY,
			phase TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			city TEXT NOT NULL,
			email TEXT NOT NULL,
			PRIMARY KEY (city, email)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

// LoadState reads the state table, returning nil when it is empty.
func (b *PostgresBackend) LoadState(ctx context.Context) (cycle.StateRecord, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT city, phase FROM city_state`)
	if err != nil {
		return nil, fmt.Errorf("querying state: %w", err)
	}
	defer rows.Close()

	var rec cycle.StateRecord
	for rows.Next() {
		var city, phase string
		if err := rows.Scan(&city, &phase); err != nil {
			return nil, fmt.Errorf("scanning state row: %w", err)
		}
		if rec == nil {
			rec = make(cycle.StateRecord)
		}
		rec[city] = cycle.Phase(phase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state rows: %w", err)
	}
	return rec, nil
}

// SaveState replaces the state table with rec.
func (b *PostgresBackend) SaveState(ctx context.Context, rec cycle.StateRecord) error {
	return b.replace(ctx, `DELETE FROM city_state`,
		`INSERT INTO city_state (city, phase) VALUES ($1, $2)`,
		func(insert func(args ...interface{}) error) error {
			for city, phase := range rec {
				if err := insert(city, string(phase)); err != nil {
					return err
				}
			}
			return nil
		})
}

// LoadSubscribers reads the subscribers table, returning nil when empty.
func (b *PostgresBackend) LoadSubscribers(ctx context.Context) (Registry, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT city, email FROM subscribers ORDER BY city, email`)
	if err != nil {
		return nil, fmt.Errorf("querying subscribers: %w", err)
	}
	defer rows.Close()

	var reg Registry
	for rows.Next() {
		var city, email string
		if err := rows.Scan(&city, &email); err != nil {
			return nil, fmt.Errorf("scanning subscriber row: %w", err)
		}
		if reg == nil {
			reg = make(Registry)
		}
		reg[city] = append(reg[city], email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscriber rows: %w", err)
	}
	return reg, nil
}

// SaveSubscribers replaces the subscribers table with reg.
func (b *PostgresBackend) SaveSubscribers(ctx context.Context, reg Registry) error {
	return b.replace(ctx, `DELETE FROM subscribers`,
		`INSERT INTO subscribers (city, email) VALUES ($1, $2)`,
		func(insert func(args ...interface{}) error) error {
			for city, emails := range reg {
				for _, email := range emails {
					if err := insert(city, email); err != nil {
						return err
					}
				}
			}
			return nil
		})
}

// replace runs delete-then-insert inside a single transaction.
func (b *PostgresBackend) replace(ctx context.Context, deleteStmt, insertStmt string, fill func(insert func(args ...interface{}) error) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteStmt); err != nil {
		return fmt.Errorf("clearing table: %w", err)
	}

	insert := func(args ...interface{}) error {
		if _, err := tx.ExecContext(ctx, insertStmt, args...); err != nil {
			return fmt.Errorf("inserting row: %w", err)
		}
		return nil
	}
	if err := fill(insert); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
