package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acmello/campusctl/internal/httpx"
)

type item struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func newItemClient(t *testing.T, handler http.Handler) *Client[item] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient[item](httpx.NewClient(srv.URL, 5*time.Second), "/admin/items")
}

// ---------------------------------------------------------------------------
// Query encoding
// ---------------------------------------------------------------------------

func TestQueryEncodeDefaults(t *testing.T) {
	got := Query{}.Encode()
	want := "limit=10&page=1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestQueryEncodeFull(t *testing.T) {
	q := Query{
		Page:     3,
		PageSize: 25,
		Search:   "ada",
		Filters:  map[string]string{"status": "active", "class": "10A", "empty": ""},
	}
	got := q.Encode()
	want := "class=10A&limit=25&page=3&search=ada&status=active"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestQueryWithPage(t *testing.T) {
	q := Query{Page: 1, PageSize: 10, Search: "x"}
	q2 := q.WithPage(4)
	if q2.Page != 4 || q2.Search != "x" || q.Page != 1 {
		t.Errorf("WithPage must change only the page on a copy: %+v %+v", q, q2)
	}
}

// ---------------------------------------------------------------------------
// Typed client
// ---------------------------------------------------------------------------

func TestListEnvelope(t *testing.T) {
	client := newItemClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/items" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected limit=10, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"count":   2,
			"total":   12,
			"page":    2,
			"pages":   6,
			"data": []item{
				{ID: "a", Name: "Alpha"},
				{ID: "b", Name: "Beta"},
			},
		})
	}))

	page, err := client.List(context.Background(), Query{Page: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Alpha" {
		t.Errorf("unexpected items %+v", page.Items)
	}
	if page.CurrentPage != 2 || page.TotalPages != 6 || page.Total != 12 {
		t.Errorf("unexpected page meta %+v", page)
	}
}

func TestListEmptyEnvelope(t *testing.T) {
	client := newItemClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":null}`))
	}))

	page, err := client.List(context.Background(), Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", page.Items)
	}
	if page.CurrentPage != 1 || page.TotalPages != 1 {
		t.Errorf("expected page 1/1 fallback, got %+v", page)
	}
}

func TestGetCreateUpdateDelete(t *testing.T) {
	var calls []string
	client := newItemClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["status"] != "inactive" {
				t.Errorf("expected status payload, got %v", body)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    item{ID: "a", Name: "Alpha"},
		})
	}))

	ctx := context.Background()

	got, err := client.Get(ctx, "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("Get: %v %+v", err, got)
	}
	if _, err := client.Create(ctx, map[string]string{"name": "Alpha"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := client.UpdateStatus(ctx, "a", "inactive"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := client.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{
		"GET /admin/items/a",
		"POST /admin/items",
		"PUT /admin/items/a",
		"DELETE /admin/items/a",
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
}
