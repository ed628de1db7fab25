// Package session owns the authenticated-user identity and the persisted
// bearer credential. A single Manager is constructed at startup and passed by
// reference to everything that needs it; there is no ambient global session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/acmello/campusctl/internal/edu"
)

// API is the slice of the HTTP client the manager needs for the auth
// endpoints.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Registration is the register payload. The optional fields carry the
// role-specific profile details the backend accepts at signup.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`

	// Student profile.
	Class         string `json:"class,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	ParentName    string `json:"parentName,omitempty"`
	ParentContact string `json:"parentContact,omitempty"`

	// Teacher profile.
	EmployeeID     string `json:"employeeId,omitempty"`
	Qualification  string `json:"qualification,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type authResponse struct {
	User  *edu.User `json:"user"`
	Token string    `json:"token"`
}

// Manager is the single source of truth for who is logged in, and the only
// writer of the persisted credential. It implements httpx.Session so the
// transport can attach the token and force a logout on authorization
// failures.
type Manager struct {
	api   API
	store TokenStore

	mu    sync.RWMutex
	user  *edu.User
	token string
}

// NewManager creates an unauthenticated session manager.
func NewManager(api API, store TokenStore) *Manager {
	return &Manager{api: api, store: store}
}

// Login authenticates against the platform. On success the returned token is
// persisted and the session user is set; on failure the session is unchanged.
func (m *Manager) Login(ctx context.Context, email, password, role string) (*edu.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if role != "" && !edu.Role(role).Valid() {
		return nil, fmt.Errorf("role must be admin, teacher or student")
	}

	body := map[string]string{"email": email, "password": password}
	if role != "" {
		body["role"] = role
	}

	var resp authResponse
	if err := m.api.Post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// Register creates an account and logs in with the returned credentials; the
// response contract is identical to Login.
func (m *Manager) Register(ctx context.Context, reg Registration) (*edu.User, error) {
	if reg.FirstName == "" || reg.LastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	if reg.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if reg.Password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if !edu.Role(reg.Role).Valid() {
		return nil, fmt.Errorf("role must be admin, teacher or student")
	}

	var resp authResponse
	if err := m.api.Post(ctx, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) establish(resp authResponse) (*edu.User, error) {
	if resp.User == nil || resp.Token == "" {
		return nil, fmt.Errorf("malformed auth response from server")
	}
	if err := m.store.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("persisting token: %w", err)
	}

	m.mu.Lock()
	m.token = resp.Token
	m.user = resp.User
	m.mu.Unlock()

	return resp.User, nil
}

// Restore re-validates a previously persisted token against the identity
// endpoint. Any failure (network, expired, invalid) clears the persisted
// token and leaves the session unauthenticated. It returns an error only when
// the token store itself is unusable.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	// Hold the token provisionally so the identity check carries it.
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	var resp struct {
		User *edu.User `json:"user"`
	}
	if err := m.api.Get(ctx, "/auth/me", &resp); err != nil || resp.User == nil {
		if err != nil {
			slog.Debug("session restore failed", "error", err)
		}
		m.InvalidateSession()
		return nil
	}

	m.mu.Lock()
	m.user = resp.User
	m.mu.Unlock()
	return nil
}

// Logout clears the persisted token and the in-memory user synchronously.
// It is idempotent and requires no server round-trip.
func (m *Manager) Logout() {
	m.InvalidateSession()
}

// InvalidateSession drops the credential and user unconditionally. The
// transport calls this on any 401 response.
func (m *Manager) InvalidateSession() {
	if err := m.store.Clear(); err != nil {
		slog.Warn("clearing persisted token", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
}

// IsAuthenticated reports whether a token is currently held.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the current bearer token, or "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns the resolved user, or nil during startup validation or when
// unauthenticated.
func (m *Manager) User() *edu.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}
