package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the SQLSTATE for unique constraint violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// violatedConstraint returns the name of the violated constraint, if any
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// escapeLikePattern escapes LIKE wildcards so user input matches literally,
// like the in-memory backend's substring search.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// setBuilder accumulates SET clauses for partial updates. Nil pointer values
// are skipped, so only the supplied fields end up in the statement.
type setBuilder struct {
	clauses []string
	args    []interface{}
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) add(column string, value interface{}) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return
		}
		value = rv.Elem().Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return
		}
	}

	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// addRaw adds a clause with the value as-is, including nil (SQL NULL)
func (b *setBuilder) addRaw(column string, value interface{}) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.args) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.clauses, ", ")
}

// next is the positional index for the first argument after the SET list
func (b *setBuilder) next() int {
	return len(b.args) + 1
}
