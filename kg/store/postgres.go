package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/dyngraph/kg"
)

// DBPool defines the interface for the pgx connection pool. Narrowed so tests
// can substitute pgxmock.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresGraphStore implements kg.GraphStore on PostgreSQL. Edges live in a
// single table keyed by the derived edge key; upserts rely on
// ON CONFLICT DO NOTHING for idempotence.
type PostgresGraphStore struct {
	pool      DBPool
	tableName string
}

var _ kg.GraphStore = (*PostgresGraphStore)(nil)

// PostgresOptions configuration for the Postgres connection.
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "edges"
}

// NewPostgresGraphStore creates a new Postgres graph store and ensures the
// schema exists.
func NewPostgresGraphStore(ctx context.Context, opts PostgresOptions) (*PostgresGraphStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	store := NewPostgresGraphStoreWithPool(pool, opts.TableName)
	if err := store.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresGraphStoreWithPool creates a Postgres graph store with an
// existing pool. Useful for testing with mocks.
func NewPostgresGraphStoreWithPool(pool DBPool, tableName string) *PostgresGraphStore {
	if tableName == "" {
		tableName = "edges"
	}
	return &PostgresGraphStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the edges table if it doesn't exist.
func (s *PostgresGraphStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL
		);
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: create schema: %v", kg.ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertEdge inserts the edge row, ignoring duplicates by key.
func (s *PostgresGraphStore) UpsertEdge(ctx context.Context, subject, predicate, object string) (string, error) {
	edge, err := kg.NewEdge(subject, predicate, object)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, subject, predicate, object)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query, edge.Key, edge.From, edge.Predicate, edge.To); err != nil {
		return "", fmt.Errorf("%w: upsert edge %s: %v", kg.ErrStoreUnavailable, edge.Key, err)
	}
	return edge.Key, nil
}

// DeleteEdge removes the edge row and reports whether one existed.
func (s *PostgresGraphStore) DeleteEdge(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.tableName)

	tag, err := s.pool.Exec(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("%w: delete edge %s: %v", kg.ErrStoreUnavailable, key, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListEdges performs a full table scan.
func (s *PostgresGraphStore) ListEdges(ctx context.Context) ([]kg.Edge, error) {
	query := fmt.Sprintf(`SELECT key, subject, predicate, object FROM %s`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list edges: %v", kg.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var edges []kg.Edge
	for rows.Next() {
		var e kg.Edge
		if err := rows.Scan(&e.Key, &e.From, &e.Predicate, &e.To); err != nil {
			return nil, fmt.Errorf("%w: scan edge: %v", kg.ErrStoreUnavailable, err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list edges: %v", kg.ErrStoreUnavailable, err)
	}

	return edges, nil
}

// Clear truncates the edges table.
func (s *PostgresGraphStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`TRUNCATE %s`, s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: clear: %v", kg.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresGraphStore) Close() error {
	s.pool.Close()
	return nil
}
