package sqlite

import (
	"strings"
	"time"

	"github.com/sakif/sportsforum/internal/repository"
)

// predicate is one WHERE condition with its bound argument. The clause holds
// a single ? placeholder and never any caller data.
type predicate struct {
	clause string
	arg    any
}

// selectQuery assembles a SELECT from fixed SQL fragments; all values travel
// as bound parameters.
type selectQuery struct {
	base    string
	where   []predicate
	orderBy string
	limit   int
}

func (q *selectQuery) and(clause string, arg any) {
	q.where = append(q.where, predicate{clause: clause, arg: arg})
}

func (q *selectQuery) build() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(q.where)+1)

	sb.WriteString(q.base)
	for i, p := range q.where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(p.clause)
		args = append(args, p.arg)
	}
	if q.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.orderBy)
	}
	if q.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	}
	return sb.String(), args
}

// ordersQuery translates a filter into the orders listing query. Conditions
// are added in a fixed order: nickname, before, after.
func ordersQuery(f repository.OrderFilter) selectQuery {
	q := selectQuery{
		base:    `SELECT ` + orderColumns + ` FROM orders`,
		orderBy: "timestamp DESC, order_id DESC",
		limit:   f.Limit,
	}
	if f.Nickname != "" {
		q.and("nickname = ?", f.Nickname)
	}
	if !f.Before.IsZero() {
		q.and("timestamp < ?", ceilUnix(f.Before))
	}
	if !f.After.IsZero() {
		q.and("timestamp > ?", toUnix(f.After))
	}
	return q
}

// ceilUnix rounds t up to a whole second. Stored timestamps are whole
// seconds, so "timestamp < ceilUnix(t)" keeps every row strictly before t.
func ceilUnix(t time.Time) int64 {
	secs := t.Unix()
	if t.Nanosecond() > 0 {
		secs++
	}
	return secs
}
