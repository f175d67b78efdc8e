package postgrest

import (
	"context"
	"flashauction/packages/core/filter"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Builds PostgREST request for a single table.
// Filter values are formatted with fmt, so they must be scalars.
type QueryBuilder struct {
	client    *Client
	table     string
	params    url.Values
	single    bool
	authToken string
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.params.Set("select", compactSelect(columns))
	return q
}

// Removes whitespaces from multiline select expressions.
func compactSelect(columns string) string {
	return strings.Join(strings.Fields(columns), "")
}

func (q *QueryBuilder) filter(column string, op string, value any) *QueryBuilder {
	q.params.Add(column, op+"."+fmt.Sprint(value))
	return q
}

func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	return q.filter(column, "eq", value)
}

func (q *QueryBuilder) Gt(column string, value any) *QueryBuilder {
	return q.filter(column, "gt", value)
}

func (q *QueryBuilder) Gte(column string, value any) *QueryBuilder {
	return q.filter(column, "gte", value)
}

func (q *QueryBuilder) Lt(column string, value any) *QueryBuilder {
	return q.filter(column, "lt", value)
}

func (q *QueryBuilder) Lte(column string, value any) *QueryBuilder {
	return q.filter(column, "lte", value)
}

// Pattern uses "*" or "%" as wildcard.
func (q *QueryBuilder) Like(column string, pattern string) *QueryBuilder {
	return q.filter(column, "like", pattern)
}

func (q *QueryBuilder) Is(column string, null bool) *QueryBuilder {
	if null {
		return q.filter(column, "is", "null")
	}
	return q.filter(column, "not.is", "null")
}

func direction(ascending bool) string {
	if ascending {
		return "asc"
	}
	return "desc"
}

func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	q.params.Add("order", column+"."+direction(ascending))
	return q
}

// Orders rows of the embedded resource.
func (q *QueryBuilder) OrderReferenced(table string, column string, ascending bool) *QueryBuilder {
	q.params.Add(table+".order", column+"."+direction(ascending))
	return q
}

func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Limits rows of the embedded resource.
func (q *QueryBuilder) LimitReferenced(table string, n int) *QueryBuilder {
	q.params.Set(table+".limit", strconv.Itoa(n))
	return q
}

// Expects exactly one row, response body will be an object instead of array.
// If there are zero or many rows, then request fails with *Error.Store,
// which has NotFound set.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

// Request will be sent on behalf of the token's owner.
func (q *QueryBuilder) AuthToken(token string) *QueryBuilder {
	q.authToken = token
	return q
}

// Adapts builder to entities' filters.
func (q *QueryBuilder) Filters() filter.Handle {
	return handle{q}
}

func (q *QueryBuilder) send(ctx context.Context, method string, body any, prefer string) (*Response, error) {
	req, err := q.client.newRequest(ctx, method, q.table, q.params, body)
	if err != nil {
		return nil, err
	}

	q.client.setHeaders(req, q.authToken)

	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	return q.client.do(req)
}

// SELECT
func (q *QueryBuilder) Execute(ctx context.Context) (*Response, error) {
	return q.send(ctx, http.MethodGet, nil, "")
}

// INSERT, response contains inserted rows.
func (q *QueryBuilder) Insert(ctx context.Context, data any) (*Response, error) {
	return q.send(ctx, http.MethodPost, data, "return=representation")
}

// UPDATE, response contains updated rows.
func (q *QueryBuilder) Update(ctx context.Context, data any) (*Response, error) {
	return q.send(ctx, http.MethodPatch, data, "return=representation")
}

// DELETE, response contains deleted rows.
func (q *QueryBuilder) Delete(ctx context.Context) (*Response, error) {
	return q.send(ctx, http.MethodDelete, nil, "return=representation")
}

type handle struct {
	q *QueryBuilder
}

func (h handle) Eq(column string, value any) { h.q.Eq(column, value) }
func (h handle) Gt(column string, value any) { h.q.Gt(column, value) }
func (h handle) Gte(column string, value any) { h.q.Gte(column, value) }
func (h handle) Lt(column string, value any) { h.q.Lt(column, value) }
func (h handle) Lte(column string, value any) { h.q.Lte(column, value) }

// PostgREST turns every "*" of the value into "%", so escaped "*" matches literal "%".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `\*`)

// Entities use plain substring patterns, wildcards of the value are matched literally.
func (h handle) Like(column string, pattern string) {
	h.q.Like(column, "*"+likeEscaper.Replace(pattern)+"*")
}

func (h handle) Is(column string, null bool) { h.q.Is(column, null) }
