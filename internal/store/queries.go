package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/woql"
)

// ErrNotFound is returned when no query is saved under a name.
var ErrNotFound = errors.New("saved query not found")

// SavedQuery is one row of the library.
type SavedQuery struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Hash        string      `json:"hash"`
	AST         ir.IRObject `json:"ast"`
	Source      string      `json:"source"`
	Seq         int64       `json:"seq"`
}

// Query lifts the stored AST back into a query tree.
func (sq SavedQuery) Query() (*woql.Query, error) {
	q, err := woql.FromIR(sq.AST)
	if err != nil {
		return nil, fmt.Errorf("saved query %q: %w", sq.Name, err)
	}
	return q, nil
}

// Save stores q under name, replacing any query already saved there. The
// fluent source is printed once at save time.
func (s *Store) Save(ctx context.Context, name, description string, q *woql.Query) (SavedQuery, error) {
	if name == "" {
		return SavedQuery{}, fmt.Errorf("save: name is required")
	}
	ast, err := q.ToIR()
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: %w", name, err)
	}
	astJSON, err := marshalAST(ast)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: %w", name, err)
	}
	hash, err := ir.QueryHash(ast)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: %w", name, err)
	}
	source, err := woql.Print(q, 0, true)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM saved_queries`).Scan(&seq); err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: next seq: %w", name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_queries
		(id, name, description, query_hash, ast, source, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			query_hash  = excluded.query_hash,
			ast         = excluded.ast,
			source      = excluded.source,
			seq         = excluded.seq
	`,
		s.ids.Generate(),
		name,
		description,
		hash,
		astJSON,
		source,
		seq,
	)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: %w", name, err)
	}

	saved, err := scanSavedQuery(tx.QueryRowContext(ctx, selectColumns+` WHERE name = ?`, name))
	if err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: read back: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return SavedQuery{}, fmt.Errorf("save %q: commit: %w", name, err)
	}

	s.logger.Info("query saved", "name", name, "hash", hash, "seq", seq)
	return saved, nil
}

const selectColumns = `
	SELECT id, name, description, query_hash, ast, source, seq
	FROM saved_queries`

// Get returns the query saved under name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (SavedQuery, error) {
	sq, err := scanSavedQuery(s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return SavedQuery{}, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return SavedQuery{}, fmt.Errorf("get %q: %w", name, err)
	}
	return sq, nil
}

// List returns every saved query ordered by name.
// Returns an empty slice (not nil) when the library is empty.
func (s *Store) List(ctx context.Context) ([]SavedQuery, error) {
	return s.query(ctx, selectColumns+` ORDER BY name COLLATE BINARY ASC`)
}

// FindByHash returns every name the query with the given hash is saved
// under, ordered by save sequence.
func (s *Store) FindByHash(ctx context.Context, hash string) ([]SavedQuery, error) {
	return s.query(ctx, selectColumns+` WHERE query_hash = ? ORDER BY seq ASC`, hash)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]SavedQuery, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query saved queries: %w", err)
	}
	defer rows.Close()

	out := []SavedQuery{}
	for rows.Next() {
		sq, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved queries: %w", err)
	}
	return out, nil
}

// Delete removes the query saved under name, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_queries WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	s.logger.Info("query deleted", "name", name)
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row scanner) (SavedQuery, error) {
	var sq SavedQuery
	var astJSON string
	if err := row.Scan(&sq.ID, &sq.Name, &sq.Description, &sq.Hash, &astJSON, &sq.Source, &sq.Seq); err != nil {
		return SavedQuery{}, err
	}
	ast, err := unmarshalAST(astJSON)
	if err != nil {
		return SavedQuery{}, fmt.Errorf("saved query %q: %w", sq.Name, err)
	}
	sq.AST = ast
	return sq, nil
}
