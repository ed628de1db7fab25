package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeSession implements Session with a fixed token and records invalidations.
type fakeSession struct {
	token       string
	invalidated int
}

func (s *fakeSession) Token() string      { return s.token }
func (s *fakeSession) InvalidateSession() { s.invalidated++ }

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sess := &fakeSession{token: "tok-123"}
	client.SetSession(sess)

	if err := client.Get(context.Background(), "/ping", nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoBearerWhenTokenAbsent(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client.SetSession(&fakeSession{token: ""})

	if err := client.Get(context.Background(), "/ping", nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"token expired"}`))
	}))
	defer srv.Close()

	sess := &fakeSession{token: "stale"}
	client.SetSession(sess)

	err := client.Get(context.Background(), "/admin/students", nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if sess.invalidated != 1 {
		t.Errorf("expected exactly one invalidation, got %d", sess.invalidated)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected IsUnauthorized, got status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "token expired" {
		t.Errorf("expected backend message, got %q", apiErr.Message)
	}
}

func TestErrorMessageShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"msg field", `{"msg":"bad credentials"}`, "bad credentials"},
		{"message field", `{"message":"duplicate email"}`, "duplicate email"},
		{"error envelope", `{"error":{"code":"not_found","message":"student not found"}}`, "student not found"},
		{"no message", `{}`, "request failed with status 400"},
		{"not json", `oops`, "request failed with status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := client.Get(context.Background(), "/x", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestPostDecodesResponse(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name":"Algebra"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	if err := client.Post(context.Background(), "/admin/courses", map[string]string{"name": "Algebra"}, &out); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if out.Name != "Algebra" {
		t.Errorf("expected decoded name, got %q", out.Name)
	}
}

func TestConnectionRefused(t *testing.T) {
	// Point at a closed port.
	client := NewClient("http://127.0.0.1:1", time.Second)

	err := client.Get(context.Background(), "/x", nil)
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if terr.Kind != "connection_refused" && terr.Kind != "network" {
		t.Errorf("unexpected kind %q", terr.Kind)
	}
}

func TestContextCancellation(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Get(ctx, "/slow", nil)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if terr.Kind != "canceled" {
		t.Errorf("expected canceled, got %q", terr.Kind)
	}
}
