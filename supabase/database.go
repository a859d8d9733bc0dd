package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// From starts a query against a table at this access level.
func (ac *AccessContext) From(table string) *QueryBuilder {
	return &QueryBuilder{
		ac:      ac,
		table:   table,
		method:  "GET",
		columns: "*",
		headers: make(map[string]string),
	}
}

// RPC calls a Postgres function and returns the raw response body.
func (ac *AccessContext) RPC(ctx context.Context, fn string, params interface{}) ([]byte, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("supabase: marshal rpc params: %w", err)
	}

	respBody, _, statusCode, err := ac.do(ctx, "POST", ac.client.restURL+"/rpc/"+url.PathEscape(fn), body, nil)
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	return respBody, nil
}

// QueryBuilder builds and executes one PostgREST request.
type QueryBuilder struct {
	ac      *AccessContext
	table   string
	method  string
	columns string
	filters []string
	orders  []string
	limit   *int
	body    []byte
	headers map[string]string
}

// Select specifies the columns to return. Embedded resources use the
// PostgREST syntax, e.g. "*,postings(title)".
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.method = "GET"
	q.columns = columns
	return q
}

// Insert inserts one or more records and asks for the created rows back.
func (q *QueryBuilder) Insert(data interface{}) *QueryBuilder {
	q.method = "POST"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Update patches the rows matched by the filters.
func (q *QueryBuilder) Update(data interface{}) *QueryBuilder {
	q.method = "PATCH"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Delete removes the rows matched by the filters.
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = "DELETE"
	return q
}

// Eq adds an equality filter.
func (q *QueryBuilder) Eq(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// Gte adds a greater-than-or-equal filter.
func (q *QueryBuilder) Gte(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=gte.%v", column, value))
	return q
}

// Or adds a disjunctive filter group, e.g. "email.eq.a@b.c,ip_address.eq.1.2.3.4".
func (q *QueryBuilder) Or(filters string) *QueryBuilder {
	q.filters = append(q.filters, "or=("+url.QueryEscape(filters)+")")
	return q
}

// Order adds an order clause. Direction defaults to ascending.
func (q *QueryBuilder) Order(column string, opts ...OrderDirection) *QueryBuilder {
	dir := OrderAsc
	if len(opts) > 0 {
		dir = opts[0]
	}
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit caps the number of returned rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = &n
	return q
}

// Single requests exactly one row as a bare JSON object. PostgREST rejects
// the request when zero or more than one row matches.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.headers["Accept"] = "application/vnd.pgrst.object+json"
	return q
}

// Execute runs the query and returns the raw response body.
func (q *QueryBuilder) Execute(ctx context.Context) ([]byte, error) {
	respBody, _, statusCode, err := q.ac.do(ctx, q.method, q.buildURL(), q.body, q.headers)
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}
	return respBody, nil
}

// ExecuteInto runs the query and unmarshals the response into dest.
func (q *QueryBuilder) ExecuteInto(ctx context.Context, dest interface{}) error {
	data, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("supabase: unmarshal response: %w", err)
	}
	return nil
}

// CountExact runs the query as a HEAD request with an exact count and
// returns the total number of matching rows, read from Content-Range.
func (q *QueryBuilder) CountExact(ctx context.Context) (int64, error) {
	headers := make(map[string]string, len(q.headers)+1)
	for k, v := range q.headers {
		headers[k] = v
	}
	headers["Prefer"] = "count=exact"

	respBody, respHeaders, statusCode, err := q.ac.do(ctx, "HEAD", q.buildURL(), nil, headers)
	if err != nil {
		return 0, err
	}
	if statusCode >= 400 {
		return 0, parseError(respBody, statusCode)
	}

	return parseContentRangeCount(respHeaders.Get("Content-Range"))
}

// parseContentRangeCount extracts the total from a Content-Range header
// such as "0-1/2" or "*/0".
func parseContentRangeCount(contentRange string) (int64, error) {
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 || idx == len(contentRange)-1 {
		return 0, fmt.Errorf("supabase: missing count in Content-Range %q", contentRange)
	}

	total := contentRange[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("supabase: server did not return an exact count")
	}

	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supabase: bad count in Content-Range %q", contentRange)
	}
	return n, nil
}

func (q *QueryBuilder) buildURL() string {
	urlStr := q.ac.client.restURL + "/" + url.PathEscape(q.table)

	params := make([]string, 0, len(q.filters)+3)
	if (q.method == "GET" || q.method == "HEAD") && q.columns != "" {
		params = append(params, "select="+url.QueryEscape(q.columns))
	}
	params = append(params, q.filters...)
	if len(q.orders) > 0 {
		params = append(params, "order="+strings.Join(q.orders, ","))
	}
	if q.limit != nil {
		params = append(params, fmt.Sprintf("limit=%d", *q.limit))
	}

	if len(params) > 0 {
		urlStr += "?" + strings.Join(params, "&")
	}
	return urlStr
}
