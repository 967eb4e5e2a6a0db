package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	clause string
	args   []interface{}
}

func newWhere(base string, args ...interface{}) *whereBuilder {
	return &whereBuilder{clause: base, args: args}
}

// add appends cond, where %d is replaced by the next placeholder index.
func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clause += " AND " + fmt.Sprintf(cond, len(w.args))
}

// next returns the index the following argument will take.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// rowExists runs a SELECT EXISTS(...) query.
func rowExists(ctx context.Context, q database.Querier, query string, args ...interface{}) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
