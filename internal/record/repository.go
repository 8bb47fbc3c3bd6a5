package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Store is the SQL handle a Repository runs statements against.
// *sql.DB, *sql.Tx and *database.DB all satisfy it.
type Store interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is implemented by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...any) error
}

// Table describes how an entity maps onto a single table
type Table[P Entity] struct {
	// Name of the backing table
	Name string

	// Schema is an idempotent CREATE TABLE IF NOT EXISTS statement
	Schema string

	// Columns lists the persisted columns, excluding id, in Values order
	Columns []string

	// Values returns the column values of p in Columns order
	Values func(p P) []any

	// Scan returns scan destinations for Columns and a function that builds
	// a validated instance from them once the row has been scanned
	Scan func() (dest []any, build func() (P, error))
}

// Repository synchronizes instances of one entity kind with its table
type Repository[P Entity] struct {
	store    Store
	table    Table[P]
	identity *IdentityMap[P]
}

// NewRepository creates a repository with an empty identity map
func NewRepository[P Entity](store Store, table Table[P]) *Repository[P] {
	return &Repository[P]{
		store:    store,
		table:    table,
		identity: NewIdentityMap[P](),
	}
}

// WithStore returns a repository that runs statements against store, such
// as a *sql.Tx, and shares this repository's identity map
func (r *Repository[P]) WithStore(store Store) *Repository[P] {
	return &Repository[P]{
		store:    store,
		table:    r.table,
		identity: r.identity,
	}
}

// Identity returns the repository's identity map
func (r *Repository[P]) Identity() *IdentityMap[P] {
	return r.identity
}

// CreateTable ensures the backing table exists
func (r *Repository[P]) CreateTable(ctx context.Context) error {
	if _, err := r.store.ExecContext(ctx, r.table.Schema); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table.Name, err)
	}
	log.Info().Str("table", r.table.Name).Msg("Table ready")
	return nil
}

// DropTable removes the backing table and every row in it
func (r *Repository[P]) DropTable(ctx context.Context) error {
	if _, err := r.store.ExecContext(ctx, "DROP TABLE IF EXISTS "+r.table.Name); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", r.table.Name, err)
	}
	r.identity.Clear()
	log.Info().Str("table", r.table.Name).Msg("Table dropped")
	return nil
}

// Save inserts a new row from p, assigns the generated id to p and
// registers p in the identity map.
func (r *Repository[P]) Save(ctx context.Context, p P) error {
	key := p.recordKey()
	if key.id != 0 {
		return fmt.Errorf("failed to save %s %d: %w", r.table.Name, key.id, ErrAlreadyPersisted)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(r.table.Columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table.Name, strings.Join(r.table.Columns, ", "), placeholders)

	result, err := r.store.ExecContext(ctx, query, r.table.Values(p)...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.table.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get %s id: %w", r.table.Name, err)
	}

	key.id = id
	r.identity.Put(id, p)

	log.Debug().Str("table", r.table.Name).Int64("id", id).Msg("Inserted row")
	return nil
}

// Update writes every column of p to the row matching its id. The identity
// map is not touched.
func (r *Repository[P]) Update(ctx context.Context, p P) error {
	id := p.ID()
	if id == 0 {
		return fmt.Errorf("failed to update %s: %w", r.table.Name, ErrNotPersisted)
	}

	assignments := make([]string, len(r.table.Columns))
	for i, col := range r.table.Columns {
		assignments[i] = col + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.table.Name, strings.Join(assignments, ", "))

	args := append(r.table.Values(p), id)
	result, err := r.store.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", r.table.Name, id, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug().Str("table", r.table.Name).Int64("id", id).Msg("Update matched no row")
		return nil
	}

	log.Debug().Str("table", r.table.Name).Int64("id", id).Msg("Updated row")
	return nil
}

// Delete removes the row matching p's id, drops p from the identity map and
// resets its id. p stays usable and may be saved again as a new row.
func (r *Repository[P]) Delete(ctx context.Context, p P) error {
	key := p.recordKey()
	if key.id == 0 {
		return fmt.Errorf("failed to delete %s: %w", r.table.Name, ErrNotPersisted)
	}

	if _, err := r.store.ExecContext(ctx, "DELETE FROM "+r.table.Name+" WHERE id = ?", key.id); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.table.Name, key.id, err)
	}

	log.Debug().Str("table", r.table.Name).Int64("id", key.id).Msg("Deleted row")

	r.identity.Remove(key.id)
	key.id = 0
	return nil
}

// FindByID returns the instance for id, or nil when no row matches
func (r *Repository[P]) FindByID(ctx context.Context, id int64) (P, error) {
	row := r.store.QueryRowContext(ctx, r.selectQuery()+" WHERE id = ?", id)
	p, err := r.instanceFromRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero P
		return zero, nil
	}
	if err != nil {
		var zero P
		return zero, fmt.Errorf("failed to get %s %d: %w", r.table.Name, id, err)
	}
	return p, nil
}

// All returns one instance per row, in the order the store yields them
func (r *Repository[P]) All(ctx context.Context) ([]P, error) {
	return r.list(ctx, r.selectQuery())
}

// FindWhere returns the instances whose column equals value
func (r *Repository[P]) FindWhere(ctx context.Context, column string, value any) ([]P, error) {
	if !slices.Contains(r.table.Columns, column) {
		return nil, fmt.Errorf("%s.%s: %w", r.table.Name, column, ErrUnknownColumn)
	}
	return r.list(ctx, r.selectQuery()+" WHERE "+column+" = ?", value)
}

// FindFirstWhere returns the first instance whose column equals value, or
// nil when none does
func (r *Repository[P]) FindFirstWhere(ctx context.Context, column string, value any) (P, error) {
	var zero P
	if !slices.Contains(r.table.Columns, column) {
		return zero, fmt.Errorf("%s.%s: %w", r.table.Name, column, ErrUnknownColumn)
	}

	row := r.store.QueryRowContext(ctx, r.selectQuery()+" WHERE "+column+" = ? LIMIT 1", value)
	p, err := r.instanceFromRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("failed to get %s by %s: %w", r.table.Name, column, err)
	}
	return p, nil
}

// Count returns the number of rows in the table
func (r *Repository[P]) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.store.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.table.Name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table.Name, err)
	}
	return count, nil
}

func (r *Repository[P]) list(ctx context.Context, query string, args ...any) ([]P, error) {
	rows, err := r.store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	var items []P
	for rows.Next() {
		p, err := r.instanceFromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s row: %w", r.table.Name, err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.table.Name, err)
	}
	return items, nil
}

func (r *Repository[P]) selectQuery() string {
	return fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(r.table.Columns, ", "), r.table.Name)
}

// instanceFromRow reconciles a scanned row with the identity map. A cached
// instance is returned as-is; otherwise a new one is built and registered.
func (r *Repository[P]) instanceFromRow(s Scanner) (P, error) {
	var zero P
	var id int64
	dest, build := r.table.Scan()

	if err := s.Scan(append([]any{&id}, dest...)...); err != nil {
		return zero, err
	}

	if existing, ok := r.identity.Get(id); ok {
		return existing, nil
	}

	p, err := build()
	if err != nil {
		return zero, err
	}
	p.recordKey().id = id
	r.identity.Put(id, p)

	log.Trace().Str("table", r.table.Name).Int64("id", id).Msg("Loaded row into identity map")
	return p, nil
}
