package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is the list lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Capabilities declares which row actions a list instance supports.
// Unsupported actions render no affordance and are rejected if invoked.
type Capabilities struct {
	View   bool
	Edit   bool
	Delete bool
}

// ErrStale marks a fetch result that was superseded by a newer query before
// it arrived; its result is discarded rather than applied.
var ErrStale = errors.New("fetch superseded by a newer query")

// ErrNotSupported is returned when an action outside the list's declared
// capabilities is invoked.
var ErrNotSupported = errors.New("action not supported by this list")

// Controller is one long-lived list instance: it owns the current query, the
// displayed page and the lifecycle state. Mutations re-fetch the current
// query on success so displayed counts and pages stay consistent with the
// server's source of truth; on failure the displayed state is untouched.
type Controller[T any] struct {
	client *Client[T]
	caps   Capabilities

	mu      sync.Mutex
	seq     uint64 // latest issued fetch
	state   State
	query   Query
	page    Page[T]
	loaded  bool // at least one fetch succeeded
	lastErr error
}

// NewController creates an idle list over the given resource client.
func NewController[T any](client *Client[T], caps Capabilities, initial Query) *Controller[T] {
	if initial.Page < 1 {
		initial.Page = 1
	}
	if initial.PageSize < 1 {
		initial.PageSize = 10
	}
	return &Controller[T]{client: client, caps: caps, query: initial}
}

// Capabilities returns the list's declared row actions.
func (c *Controller[T]) Capabilities() Capabilities {
	return c.caps
}

// Load performs the initial fetch.
func (c *Controller[T]) Load(ctx context.Context) error {
	return c.fetch(ctx)
}

// Refresh re-fetches the current query unchanged.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// SetSearch changes the search text, resets to page 1 and fetches.
func (c *Controller[T]) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	c.query.Search = search
	c.query.Page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// SetFilter sets one filter field, resets to page 1 and fetches. An empty
// value removes the filter.
func (c *Controller[T]) SetFilter(ctx context.Context, field, value string) error {
	c.mu.Lock()
	if c.query.Filters == nil {
		c.query.Filters = map[string]string{}
	}
	if value == "" {
		delete(c.query.Filters, field)
	} else {
		c.query.Filters[field] = value
	}
	c.query.Page = 1
	c.mu.Unlock()
	return c.fetch(ctx)
}

// GoToPage moves to another page of the same query. Pagination is the one
// query change that does not reset the page number.
func (c *Controller[T]) GoToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.query.Page = page
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Create adds an item and re-fetches the current query on success.
func (c *Controller[T]) Create(ctx context.Context, payload any) (*T, error) {
	created, err := c.client.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	return created, c.fetch(ctx)
}

// Delete removes an item and re-fetches the current query on success.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if !c.caps.Delete {
		return ErrNotSupported
	}
	if err := c.client.Delete(ctx, id); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// UpdateStatus changes an item's status and re-fetches on success.
func (c *Controller[T]) UpdateStatus(ctx context.Context, id, status string) error {
	if !c.caps.Edit {
		return ErrNotSupported
	}
	if err := c.client.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return c.fetch(ctx)
}

// fetch issues one list request for the current query. Each fetch gets a
// monotonically increasing sequence number; a response belonging to an older
// sequence than the latest issued one is discarded so a slow stale page can
// never overwrite a newer result.
func (c *Controller[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	// Snapshot with an independent Filters map: the request encodes the
	// query outside the lock while SetFilter may mutate the live map.
	q := c.query.clone()
	c.state = StateLoading
	c.mu.Unlock()

	page, err := c.client.List(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return ErrStale
	}
	if err != nil {
		// Prior items are preserved; the list stays usable.
		c.state = StateError
		c.lastErr = err
		return err
	}

	c.page = *page
	c.query.Page = page.CurrentPage
	c.state = StateLoaded
	c.loaded = true
	c.lastErr = nil
	return nil
}

// Items returns a copy of the currently displayed rows (never nil). The
// controller's own slice is never handed out.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.page.Items))
	copy(items, c.page.Items)
	return items
}

// Page returns a copy of the current page, rows included.
func (c *Controller[T]) Page() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.page
	p.Items = make([]T, len(c.page.Items))
	copy(p.Items, c.page.Items)
	return p
}

// Query returns a copy of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// State returns the lifecycle state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error from the most recent failed fetch, or nil.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// HasLoaded reports whether any fetch has succeeded; a false value with a
// non-nil Err means the initial load failed and the list shows an empty
// state.
func (c *Controller[T]) HasLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}
