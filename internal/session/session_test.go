package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acmello/campusctl/internal/edu"
	"github.com/acmello/campusctl/internal/httpx"
)

// newTestSetup wires a Manager to a real httpx.Client pointed at the given
// handler, the way the application bootstraps them.
func newTestSetup(t *testing.T, handler http.Handler) (*Manager, *FileTokenStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}

	client := httpx.NewClient(srv.URL, 5*time.Second)
	mgr := NewManager(client, store)
	client.SetSession(mgr)
	return mgr, store
}

func TestLoginSuccess(t *testing.T) {
	user := edu.User{ID: "u1", FirstName: "Ada", LastName: "Okafor", Email: "admin@x.com", Role: edu.RoleAdmin}
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "admin@x.com" || req["password"] != "secret" || req["role"] != "admin" {
			t.Errorf("unexpected login payload: %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{"user": user, "token": "tok-1"})
	}))

	got, err := mgr.Login(context.Background(), "admin@x.com", "secret", "admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !mgr.IsAuthenticated() {
		t.Error("expected authenticated session after login")
	}
	if got.Role != edu.RoleAdmin {
		t.Errorf("expected admin role, got %q", got.Role)
	}
	if got.Role.LandingPath() != "/Admin/dashboard" {
		t.Errorf("unexpected landing path %q", got.Role.LandingPath())
	}
	if persisted, _ := store.Load(); persisted != "tok-1" {
		t.Errorf("expected persisted token, got %q", persisted)
	}
}

func TestLoginRejected(t *testing.T) {
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"Invalid credentials"}`))
	}))

	_, err := mgr.Login(context.Background(), "admin@x.com", "wrongpass", "admin")
	if err == nil {
		t.Fatal("expected login error")
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("expected backend message, got %q", err.Error())
	}
	if mgr.IsAuthenticated() {
		t.Error("session must remain unauthenticated after a rejected login")
	}
	if persisted, _ := store.Load(); persisted != "" {
		t.Errorf("no token must be persisted, got %q", persisted)
	}
}

func TestLoginValidation(t *testing.T) {
	mgr, _ := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for invalid input")
	}))

	cases := []struct {
		name                  string
		email, password, role string
	}{
		{"missing email", "", "pw", ""},
		{"missing password", "a@x.com", "", ""},
		{"bad role", "a@x.com", "pw", "superuser"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Login(context.Background(), tt.email, tt.password, tt.role); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterAutoLogin(t *testing.T) {
	user := edu.User{ID: "u2", FirstName: "Tom", LastName: "Price", Email: "t@x.com", Role: edu.RoleStudent}
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req Registration
		json.NewDecoder(r.Body).Decode(&req)
		if req.Class != "10A" {
			t.Errorf("expected student profile fields, got %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{"user": user, "token": "tok-2"})
	}))

	got, err := mgr.Register(context.Background(), Registration{
		FirstName: "Tom", LastName: "Price", Email: "t@x.com",
		Password: "pw", Role: "student", Class: "10A",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !mgr.IsAuthenticated() || got.Role != edu.RoleStudent {
		t.Error("expected authenticated student session after register")
	}
	if persisted, _ := store.Load(); persisted != "tok-2" {
		t.Errorf("expected persisted token, got %q", persisted)
	}
}

func TestLogout(t *testing.T) {
	user := edu.User{ID: "u1", Role: edu.RoleAdmin}
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": user, "token": "tok-1"})
	}))

	if _, err := mgr.Login(context.Background(), "a@x.com", "pw", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	mgr.Logout()

	if mgr.IsAuthenticated() {
		t.Error("expected unauthenticated session after logout")
	}
	if mgr.User() != nil {
		t.Error("expected nil user after logout")
	}
	if persisted, _ := store.Load(); persisted != "" {
		t.Errorf("expected cleared token, got %q", persisted)
	}

	// Idempotent.
	mgr.Logout()
	if mgr.IsAuthenticated() {
		t.Error("logout must be idempotent")
	}
}

func TestRestoreValidToken(t *testing.T) {
	user := edu.User{ID: "u3", FirstName: "May", Role: edu.RoleTeacher}
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-saved" {
			t.Errorf("identity check must carry the persisted token, got %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{"user": user})
	}))

	if err := store.Save("tok-saved"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := mgr.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !mgr.IsAuthenticated() {
		t.Error("expected authenticated session after restore")
	}
	if u := mgr.User(); u == nil || u.Role != edu.RoleTeacher {
		t.Errorf("expected restored teacher user, got %+v", u)
	}
}

func TestRestoreExpiredTokenClearsIt(t *testing.T) {
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"token expired"}`))
	}))

	if err := store.Save("tok-stale"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := mgr.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if mgr.IsAuthenticated() {
		t.Error("expected unauthenticated session after failed restore")
	}
	if persisted, _ := store.Load(); persisted != "" {
		t.Errorf("stale token must be cleared, got %q", persisted)
	}
}

func TestRestoreNoToken(t *testing.T) {
	mgr, _ := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued without a persisted token")
	}))

	if err := mgr.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if mgr.IsAuthenticated() {
		t.Error("expected unauthenticated session")
	}
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	user := edu.User{ID: "u1", Role: edu.RoleAdmin}
	var loggedIn bool
	mgr, store := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			loggedIn = true
			json.NewEncoder(w).Encode(map[string]any{"user": user, "token": "tok-1"})
		default:
			// Token revoked server-side: every authenticated call now 401s.
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"unauthorized"}`))
		}
	}))

	if _, err := mgr.Login(context.Background(), "a@x.com", "pw", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !loggedIn || !mgr.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	// An arbitrary authenticated call through the shared transport.
	err := mgr.api.Get(context.Background(), "/admin/students", nil)
	if err == nil {
		t.Fatal("expected error from 401 response")
	}

	if mgr.IsAuthenticated() {
		t.Error("401 on any call must invalidate the session without an explicit logout")
	}
	if persisted, _ := store.Load(); persisted != "" {
		t.Errorf("persisted token must be deleted on 401, got %q", persisted)
	}
}
