package filters

import (
	"fmt"
	"strings"
)

/*
   OfficeQuery is an accumulating, value-semantics query handle for the
   office listing. Filter stages narrow it with Where/OrderBy and hand it
   on; nothing materializes until the repository renders it to SQL. Copies
   never alias, so a stage can be unit-tested against the raw handle
   without constructing the others.
*/
type OfficeQuery struct {
	conds     []string
	args      []any
	order     string
	orderArgs []any
}

func NewOfficeQuery() OfficeQuery {
	return OfficeQuery{}
}

// Where appends a conjunct. Placeholders are written as `?` and renumbered
// to $1..$n across the whole query at render time.
func (q OfficeQuery) Where(cond string, args ...any) OfficeQuery {
	q.conds = append(append([]string(nil), q.conds...), cond)
	q.args = append(append([]any(nil), q.args...), args...)
	return q
}

// OrderBy replaces the ordering expression. Last writer wins.
func (q OfficeQuery) OrderBy(expr string, args ...any) OfficeQuery {
	q.order = expr
	q.orderArgs = append([]any(nil), args...)
	return q
}

// Conds exposes the accumulated conjuncts for tests.
func (q OfficeQuery) Conds() []string { return append([]string(nil), q.conds...) }

// Order exposes the ordering expression for tests.
func (q OfficeQuery) Order() string { return q.order }

// Args exposes the accumulated arguments (where first, then order) for tests.
func (q OfficeQuery) Args() []any {
	return append(append([]any(nil), q.args...), q.orderArgs...)
}

// Render produces the WHERE and ORDER BY clauses with positional
// placeholders starting at $1, plus the flattened argument list. An empty
// ordering falls back to ascending id, the stable oldest-first default.
func (q OfficeQuery) Render() (whereSQL string, orderSQL string, args []any) {
	n := 0
	number := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if r == '?' {
				n++
				b.WriteString(fmt.Sprintf("$%d", n))
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	}

	if len(q.conds) > 0 {
		whereSQL = "WHERE " + number(strings.Join(q.conds, " AND "))
	}

	order := q.order
	if order == "" {
		order = "offices.id"
	}
	orderSQL = "ORDER BY " + number(order)

	args = append(append([]any(nil), q.args...), q.orderArgs...)
	return whereSQL, orderSQL, args
}
