package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Query builds one table-scoped request. Filter methods return the receiver
// for chaining; terminal methods (Get, Insert, Upsert, Update) execute it.
type Query struct {
	client  *Client
	table   string
	selects string
	filters url.Values
	order   []string
	limit   int
	single  bool
}

// Select sets the selected columns (default "*").
func (q *Query) Select(columns string) *Query {
	q.selects = columns
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column string, value interface{}) *Query {
	return q.addFilter(column, fmt.Sprintf("eq.%v", value))
}

// In filters rows where column is any of the values.
func (q *Query) In(column string, values []string) *Query {
	return q.addFilter(column, fmt.Sprintf("in.(%s)", strings.Join(values, ",")))
}

// Gte filters rows where column is at least value.
func (q *Query) Gte(column string, value interface{}) *Query {
	return q.addFilter(column, fmt.Sprintf("gte.%v", value))
}

// Lte filters rows where column is at most value.
func (q *Query) Lte(column string, value interface{}) *Query {
	return q.addFilter(column, fmt.Sprintf("lte.%v", value))
}

// Contains filters rows whose array column contains all the values.
func (q *Query) Contains(column string, values []string) *Query {
	return q.addFilter(column, fmt.Sprintf("cs.{%s}", strings.Join(values, ",")))
}

// Order appends a sort key. Multiple calls build a compound ordering.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single requests exactly one object instead of an array. The store answers
// with ErrNotFound when no row matches.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) addFilter(column, predicate string) *Query {
	if q.filters == nil {
		q.filters = url.Values{}
	}
	q.filters.Add(column, predicate)
	return q
}

// encode produces the request query string. url.Values sorts keys, so the
// encoding is deterministic for identical filter sets.
func (q *Query) encode() string {
	v := url.Values{}
	for column, predicates := range q.filters {
		for _, p := range predicates {
			v.Add(column, p)
		}
	}
	if q.selects != "" {
		v.Set("select", q.selects)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	if q.limit > 0 {
		v.Set("limit", fmt.Sprintf("%d", q.limit))
	}
	return v.Encode()
}

func (q *Query) headers(prefer ...string) map[string]string {
	h := map[string]string{}
	if len(prefer) > 0 {
		h["Prefer"] = strings.Join(prefer, ",")
	}
	if q.single {
		h["Accept"] = "application/vnd.pgrst.object+json"
	}
	return h
}

// Get executes a select and decodes the rows (or object, after Single) into dest.
func (q *Query) Get(ctx context.Context, dest interface{}) error {
	return q.client.do(ctx, http.MethodGet, "/rest/v1/"+q.table, q.encode(), q.headers(), nil, dest)
}

// Insert adds rows and decodes the returned representation into dest.
func (q *Query) Insert(ctx context.Context, rows, dest interface{}) error {
	return q.client.do(ctx, http.MethodPost, "/rest/v1/"+q.table, q.encode(),
		q.headers("return=representation"), rows, dest)
}

// Upsert inserts rows, merging on conflict, and decodes the representation.
func (q *Query) Upsert(ctx context.Context, rows, dest interface{}) error {
	return q.client.do(ctx, http.MethodPost, "/rest/v1/"+q.table, q.encode(),
		q.headers("return=representation", "resolution=merge-duplicates"), rows, dest)
}

// Update patches the rows matched by the filters and decodes the representation.
func (q *Query) Update(ctx context.Context, values, dest interface{}) error {
	return q.client.do(ctx, http.MethodPatch, "/rest/v1/"+q.table, q.encode(),
		q.headers("return=representation"), values, dest)
}
