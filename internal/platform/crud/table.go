package crud

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table describes how one entity maps to its SQL table. Scan reads the id
// followed by Columns, in order; Values returns the arguments for Columns.
type Table[T any] struct {
	Name    string
	Columns []string
	OrderBy string
	Scan    func(row pgx.Row) (*T, error)
	Values  func(rec *T) []interface{}
	SetID   func(rec *T, id int64)
}

func (t Table[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.Columns, ", ") + " FROM " + t.Name
}

func (t Table[T]) orderSQL() string {
	if t.OrderBy == "" {
		return " ORDER BY id"
	}
	return " ORDER BY " + t.OrderBy
}

func (t Table[T]) insertSQL() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		t.Name, strings.Join(t.Columns, ", "), placeholders(1, len(t.Columns)))
}

func (t Table[T]) hasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// UpdateSQL builds "UPDATE table SET a = $1, b = $2 WHERE id = $3".
func UpdateSQL(table string, id int64, ch Changes) (string, []interface{}) {
	sets := make([]string, len(ch))
	args := make([]interface{}, 0, len(ch)+1)
	for i, c := range ch {
		sets[i] = fmt.Sprintf("%s = $%d", c.Column, i+1)
		args = append(args, c.Value)
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args)), args
}

func placeholders(from, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}
