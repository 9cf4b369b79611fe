// Package crudtest provides an in-memory crud.ScopedRepository for tests.
package crudtest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

// Memory stores copies of records keyed by the field tagged db:"id" and
// applies change sets by matching db tags.
type Memory[T any] struct {
	mu   sync.Mutex
	rows map[int64]*T
	next int64

	// Err, when set, is returned by every call.
	Err error
	// Writes counts successful Create, Update and Delete calls.
	Writes int
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{rows: make(map[int64]*T)}
}

func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Memory[T]) FindAll(_ context.Context) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(*T) bool { return true }), nil
}

func (m *Memory[T]) FindWhere(_ context.Context, column string, value interface{}) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(rec *T) bool { return columnEquals(rec, column, value) }), nil
}

func (m *Memory[T]) FindByID(_ context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.rows[id]
	if !ok {
		return nil, crud.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory[T]) Create(_ context.Context, rec *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.next++
	field(rec, "id").SetInt(m.next)
	cp := *rec
	m.rows[m.next] = &cp
	m.Writes++
	return nil
}

func (m *Memory[T]) Update(_ context.Context, id int64, ch crud.Changes) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if len(ch) == 0 {
		return false, crud.ErrNoChanges
	}
	rec, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	cp := *rec
	for _, c := range ch {
		f := field(&cp, c.Column)
		if !f.IsValid() {
			return false, fmt.Errorf("no column %q", c.Column)
		}
		assign(f, c.Value)
	}
	m.rows[id] = &cp
	m.Writes++
	return true, nil
}

func (m *Memory[T]) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	m.Writes++
	return true, nil
}

func (m *Memory[T]) DeleteWhere(_ context.Context, id int64, column string, value interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	rec, ok := m.rows[id]
	if !ok || !columnEquals(rec, column, value) {
		return false, nil
	}
	delete(m.rows, id)
	m.Writes++
	return true, nil
}

func (m *Memory[T]) sorted(keep func(*T) bool) []*T {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if rec := m.rows[id]; keep(rec) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out
}

func field(rec interface{}, column string) reflect.Value {
	v := reflect.ValueOf(rec).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("db") == column {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func columnEquals(rec interface{}, column string, value interface{}) bool {
	f := field(rec, column)
	if !f.IsValid() {
		return false
	}
	for f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return value == nil
		}
		f = f.Elem()
	}
	return reflect.DeepEqual(f.Interface(), value)
}

// assign sets f from v, allocating when f is a pointer and v is its element.
func assign(f reflect.Value, v interface{}) {
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		f.Set(reflect.Zero(f.Type()))
		return
	}
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
	case f.Kind() == reflect.Ptr && rv.Type().AssignableTo(f.Type().Elem()):
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(rv)
		f.Set(p)
	case rv.Kind() == reflect.Ptr && rv.Elem().Type().AssignableTo(f.Type()):
		f.Set(rv.Elem())
	default:
		panic(fmt.Sprintf("crudtest: cannot assign %s to %s", rv.Type(), f.Type()))
	}
}
