// Package resource implements the paginated list contract shared by every
// entity-listing view: fetch page N of resource R filtered by F, support
// row actions, and re-fetch after any mutation. One generic implementation
// serves all entity types.
package resource

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// API is the slice of the HTTP client the resource layer needs.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Query drives exactly one list fetch. Filtering, search and pagination are
// all server-side; the client never re-filters results locally.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// WithPage returns a copy of q on a different page, all other fields intact.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// clone returns a copy whose Filters map is independent of the receiver's, so
// the copy can be read while the original keeps changing.
func (q Query) clone() Query {
	if q.Filters != nil {
		filters := make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			filters[k] = v
		}
		q.Filters = filters
	}
	return q
}

// Encode renders the query as URL parameters in the backend's contract:
// page, limit, search, plus filter fields verbatim.
func (q Query) Encode() string {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 10
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(size))
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	// Deterministic order for tests and logs.
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := q.Filters[k]; v != "" {
			params.Set(k, v)
		}
	}
	return params.Encode()
}

// Page is one page of results. It is produced fresh on every fetch and
// replaced wholesale, never mutated in place.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	Total       int
}

// listEnvelope is the backend's list response shape.
type listEnvelope[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Data    []T  `json:"data"`
}

// objectEnvelope is the backend's single-object response shape.
type objectEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data"`
}

// Client is a typed client for one resource collection, e.g. /admin/students.
type Client[T any] struct {
	api  API
	path string
}

// NewClient creates a resource client for the collection at path.
func NewClient[T any](api API, path string) *Client[T] {
	return &Client[T]{api: api, path: path}
}

// Path returns the collection path the client is bound to.
func (c *Client[T]) Path() string {
	return c.path
}

// List fetches one page. It is idempotent for a given query.
func (c *Client[T]) List(ctx context.Context, q Query) (*Page[T], error) {
	var env listEnvelope[T]
	if err := c.api.Get(ctx, c.path+"?"+q.Encode(), &env); err != nil {
		return nil, err
	}

	page := &Page[T]{
		Items:       env.Data,
		CurrentPage: env.Page,
		TotalPages:  env.Pages,
		Total:       env.Total,
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.CurrentPage < 1 {
		page.CurrentPage = max(q.Page, 1)
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

// Get fetches a single item by ID.
func (c *Client[T]) Get(ctx context.Context, id string) (*T, error) {
	var env objectEnvelope[T]
	if err := c.api.Get(ctx, c.path+"/"+url.PathEscape(id), &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("empty response for %s/%s", c.path, id)
	}
	return env.Data, nil
}

// Create adds a new item to the collection.
func (c *Client[T]) Create(ctx context.Context, payload any) (*T, error) {
	var env objectEnvelope[T]
	if err := c.api.Post(ctx, c.path, payload, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Update replaces fields of an existing item.
func (c *Client[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	var env objectEnvelope[T]
	if err := c.api.Put(ctx, c.path+"/"+url.PathEscape(id), payload, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// UpdateStatus changes only the item's status field.
func (c *Client[T]) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := c.Update(ctx, id, map[string]string{"status": status})
	return err
}

// Delete removes an item from the collection.
func (c *Client[T]) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, c.path+"/"+url.PathEscape(id), nil)
}
