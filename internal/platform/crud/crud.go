// Package crud is the shared persistence and HTTP layer for entities with no
// behaviour beyond create, read, update and delete.
package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinels returned by repositories; HTTPError maps each to a status.
var (
	ErrNotFound = errors.New("record not found")
	// ErrNoChanges is returned by Update when the change set is empty; no SQL
	// is sent.
	ErrNoChanges = errors.New("no fields to update")
	// ErrInvalidReference wraps foreign key violations.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrInvalidValue wraps check constraint violations.
	ErrInvalidValue = errors.New("value rejected by constraint")
	// ErrStillReferenced wraps foreign key violations raised by a DELETE:
	// another row still points at the one being removed.
	ErrStillReferenced = errors.New("record is still referenced")
)

// NotFoundError names the missing record in French, e.g.
// "Patient avec l'ID 12 introuvable".
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s avec l'ID %d introuvable", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Change is one column assignment of an UPDATE.
type Change struct {
	Column string
	Value  interface{}
}

// Changes is an ordered change set built by typed update requests.
type Changes []Change

// Set appends an assignment and returns the extended set.
func (c Changes) Set(column string, value interface{}) Changes {
	return append(c, Change{Column: column, Value: value})
}

// Columns returns the assigned column names in order.
func (c Changes) Columns() []string {
	cols := make([]string, len(c))
	for i, ch := range c {
		cols[i] = ch.Column
	}
	return cols
}

// Updater is implemented by update request structs.
type Updater interface {
	Changes() Changes
}

// Repository is the persistence contract of a plain entity.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, id int64, ch Changes) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ScopedRepository adds parent-scoped queries for child records.
type ScopedRepository[T any] interface {
	Repository[T]
	FindWhere(ctx context.Context, column string, value interface{}) ([]*T, error)
	DeleteWhere(ctx context.Context, id int64, column string, value interface{}) (bool, error)
}

// MapError translates constraint violations into the package sentinels.
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case "23514", "22P02", "22007", "22008":
		return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.Message)
	}
	return err
}

// MapDeleteError is MapError for DELETE statements, where a foreign key
// violation means the row is still referenced rather than a missing parent.
func MapDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s", ErrStillReferenced, pgErr.TableName)
	}
	return MapError(err)
}
