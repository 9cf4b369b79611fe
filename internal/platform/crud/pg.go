package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

// PG implements ScopedRepository[T] over one table.
type PG[T any] struct {
	q     db.Querier
	table Table[T]
}

// NewPG binds table to q. A transaction stored in the context by db.WithTx
// takes precedence over q.
func NewPG[T any](q db.Querier, table Table[T]) *PG[T] {
	return &PG[T]{q: q, table: table}
}

func (r *PG[T]) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

// FindAll returns every row, ordered by Table.OrderBy or id.
func (r *PG[T]) FindAll(ctx context.Context) ([]*T, error) {
	rows, err := r.conn(ctx).Query(ctx, r.table.selectSQL()+r.table.orderSQL())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	return Collect(rows, r.table.Scan)
}

// FindWhere returns the rows whose column equals value. column must be a
// declared column of the table.
func (r *PG[T]) FindWhere(ctx context.Context, column string, value interface{}) ([]*T, error) {
	if !r.table.hasColumn(column) {
		return nil, fmt.Errorf("%s has no column %q", r.table.Name, column)
	}
	query := r.table.selectSQL() + " WHERE " + column + " = $1" + r.table.orderSQL()
	rows, err := r.conn(ctx).Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("list %s by %s: %w", r.table.Name, column, err)
	}
	return Collect(rows, r.table.Scan)
}

// FindByID returns ErrNotFound when no row has id.
func (r *PG[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	rec, err := r.table.Scan(r.conn(ctx).QueryRow(ctx, r.table.selectSQL()+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", r.table.Name, id, err)
	}
	return rec, nil
}

// Create inserts rec and stores the generated id back into it.
func (r *PG[T]) Create(ctx context.Context, rec *T) error {
	var id int64
	err := r.conn(ctx).QueryRow(ctx, r.table.insertSQL(), r.table.Values(rec)...).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.table.Name, MapError(err))
	}
	r.table.SetID(rec, id)
	return nil
}

// Update applies ch and reports whether the row existed.
func (r *PG[T]) Update(ctx context.Context, id int64, ch Changes) (bool, error) {
	if len(ch) == 0 {
		return false, ErrNoChanges
	}
	for _, c := range ch {
		if !r.table.hasColumn(c.Column) {
			return false, fmt.Errorf("%s has no column %q", r.table.Name, c.Column)
		}
	}
	query, args := UpdateSQL(r.table.Name, id, ch)
	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update %s %d: %w", r.table.Name, id, MapError(err))
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the row. It fails with ErrStillReferenced while other rows
// point at it.
func (r *PG[T]) Delete(ctx context.Context, id int64) (bool, error) {
	return DeleteByID(ctx, r.conn(ctx), r.table.Name, id)
}

// DeleteWhere removes the row only when it belongs to the given parent.
func (r *PG[T]) DeleteWhere(ctx context.Context, id int64, column string, value interface{}) (bool, error) {
	if !r.table.hasColumn(column) {
		return false, fmt.Errorf("%s has no column %q", r.table.Name, column)
	}
	tag, err := r.conn(ctx).Exec(ctx,
		"DELETE FROM "+r.table.Name+" WHERE id = $1 AND "+column+" = $2", id, value)
	if err != nil {
		return false, fmt.Errorf("delete %s %d: %w", r.table.Name, id, MapDeleteError(err))
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByID removes one row and reports whether it existed.
func DeleteByID(ctx context.Context, q db.Querier, table string, id int64) (bool, error) {
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete %s %d: %w", table, id, MapDeleteError(err))
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateByID applies ch to one row of table; the columns must already be
// allow-listed by the caller's typed update struct.
func UpdateByID(ctx context.Context, q db.Querier, table string, id int64, ch Changes) (bool, error) {
	if len(ch) == 0 {
		return false, ErrNoChanges
	}
	query, args := UpdateSQL(table, id, ch)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update %s %d: %w", table, id, MapError(err))
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether table has a row with the given id. Inside a
// transaction the row is locked FOR SHARE until commit.
func Exists(ctx context.Context, q db.Querier, table string, id int64) (bool, error) {
	query := "SELECT 1 FROM " + table + " WHERE id = $1"
	if db.TxFromContext(ctx) != nil {
		query += " FOR SHARE"
	}
	var one int
	err := q.QueryRow(ctx, query, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", table, id, err)
	}
	return true, nil
}

// Collect scans every row and closes rows.
func Collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
