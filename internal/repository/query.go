package repository

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Op is a filter operator. The textual values match the query-parameter
// syntax accepted by collection endpoints (e.g. ?points_cost=lte.500).
type Op string

// Supported filter operators.
const (
	OpEq  Op = "eq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

var opSQL = map[Op]string{
	OpEq:  "=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
}

// Filter is one column predicate.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Query is a small builder for filtered, ordered, limited reads: the
// generic read surface of the data layer. Columns are validated against
// an allow-list when parsed from request parameters, so the compiled SQL
// only ever interpolates known column names; values always bind as
// placeholders.
type Query struct {
	filters  []Filter
	orderCol string
	orderDsc bool
	limit    int
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Where appends a column predicate.
func (q *Query) Where(column string, op Op, value any) *Query {
	q.filters = append(q.filters, Filter{Column: column, Op: op, Value: value})
	return q
}

// OrderBy sets the ordering column and direction.
func (q *Query) OrderBy(column string, desc bool) *Query {
	q.orderCol = column
	q.orderDsc = desc
	return q
}

// Limit caps the number of rows returned. Zero means no limit.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Build compiles the query onto a base SELECT statement, returning the
// full SQL and its bind arguments.
func (q *Query) Build(base string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)

	args := make([]any, 0, len(q.filters)+1)
	for i, f := range q.filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&sb, "%s %s $%d", f.Column, opSQL[f.Op], len(args))
	}

	if q.orderCol != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.orderCol)
		if q.orderDsc {
			sb.WriteString(" DESC")
		}
	}

	if q.limit > 0 {
		args = append(args, q.limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	return sb.String(), args
}

// ParseQuery builds a Query from URL query parameters. Filter parameters
// take the form <column>=<op>.<value>; ordering takes order=<column> or
// order=<column>.desc; limit takes limit=<n>. Only columns in the allowed
// set are accepted, anything else is rejected.
func ParseQuery(values url.Values, allowed map[string]bool) (*Query, error) {
	q := NewQuery()

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		value := vals[0]

		switch key {
		case "order":
			column := value
			desc := false
			if col, dir, found := strings.Cut(value, "."); found {
				column = col
				switch dir {
				case "desc":
					desc = true
				case "asc":
				default:
					return nil, fmt.Errorf("invalid order direction: %s", dir)
				}
			}
			if !allowed[column] {
				return nil, fmt.Errorf("cannot order by column: %s", column)
			}
			q.OrderBy(column, desc)

		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid limit: %s", value)
			}
			q.Limit(n)

		default:
			if !allowed[key] {
				return nil, fmt.Errorf("cannot filter on column: %s", key)
			}
			opStr, operand, found := strings.Cut(value, ".")
			if !found {
				return nil, fmt.Errorf("invalid filter for %s: %s", key, value)
			}
			op := Op(opStr)
			if _, ok := opSQL[op]; !ok {
				return nil, fmt.Errorf("unknown filter operator: %s", opStr)
			}
			q.Where(key, op, operand)
		}
	}

	return q, nil
}
