package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/dyngraph/kg"
)

// SqliteGraphStore implements kg.GraphStore using SQLite. Suited to
// single-node deployments and on-disk durability without a server.
type SqliteGraphStore struct {
	db        *sql.DB
	tableName string
}

var _ kg.GraphStore = (*SqliteGraphStore)(nil)

// SqliteOptions configuration for the SQLite database.
type SqliteOptions struct {
	Path      string // File path, or ":memory:"
	TableName string // Default "edges"
}

// NewSqliteGraphStore creates a new SQLite graph store and ensures the schema
// exists.
func NewSqliteGraphStore(opts SqliteOptions) (*SqliteGraphStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "edges"
	}

	store := &SqliteGraphStore{
		db:        db,
		tableName: tableName,
	}

	if err := store.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// InitSchema creates the edges table if it doesn't exist.
func (s *SqliteGraphStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL
		);
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create schema: %v", kg.ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertEdge inserts the edge row, ignoring duplicates by key.
func (s *SqliteGraphStore) UpsertEdge(ctx context.Context, subject, predicate, object string) (string, error) {
	edge, err := kg.NewEdge(subject, predicate, object)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (key, subject, predicate, object)
		VALUES (?, ?, ?, ?)
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, edge.Key, edge.From, edge.Predicate, edge.To); err != nil {
		return "", fmt.Errorf("%w: upsert edge %s: %v", kg.ErrStoreUnavailable, edge.Key, err)
	}
	return edge.Key, nil
}

// DeleteEdge removes the edge row and reports whether one existed.
func (s *SqliteGraphStore) DeleteEdge(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, s.tableName)

	res, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return false, fmt.Errorf("%w: delete edge %s: %v", kg.ErrStoreUnavailable, key, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete edge %s: %v", kg.ErrStoreUnavailable, key, err)
	}
	return affected > 0, nil
}

// ListEdges performs a full table scan.
func (s *SqliteGraphStore) ListEdges(ctx context.Context) ([]kg.Edge, error) {
	query := fmt.Sprintf(`SELECT key, subject, predicate, object FROM %s`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
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

// Clear deletes all edge rows.
func (s *SqliteGraphStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: clear: %v", kg.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteGraphStore) Close() error {
	return s.db.Close()
}
