package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/config"
	"github.com/acmello/campusctl/internal/crypto"
	"github.com/acmello/campusctl/internal/edu"
	"github.com/acmello/campusctl/internal/httpx"
	"github.com/acmello/campusctl/internal/session"
)

// app holds the wired client stack shared by every command.
type app struct {
	cfg     *config.Config
	api     *httpx.Client
	session *session.Manager
}

// newApp loads configuration and builds the API client and session manager.
// The client's 401 hook points back at the manager so an expired token drops
// the session everywhere at once.
func newApp() (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	tokenPath, err := cfg.TokenFilePath()
	if err != nil {
		return nil, err
	}
	store, err := session.NewFileTokenStore(tokenPath)
	if err != nil {
		return nil, err
	}
	cipher, err := crypto.NewCipher(cfg.Session.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session encryption key: %w", err)
	}
	store.SetCipher(cipher)

	api := httpx.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	mgr := session.NewManager(api, store)
	api.SetSession(mgr)

	return &app{cfg: cfg, api: api, session: mgr}, nil
}

// requireSession restores the persisted session and, when roles are given,
// checks that the authenticated user holds one of them.
func (a *app) requireSession(ctx context.Context, roles ...edu.Role) (*edu.User, error) {
	if err := a.session.Restore(ctx); err != nil {
		return nil, err
	}
	user := a.session.User()
	if user == nil {
		return nil, fmt.Errorf("not logged in, run `campusctl login` first")
	}
	if len(roles) == 0 {
		return user, nil
	}
	for _, r := range roles {
		if user.Role == r {
			return user, nil
		}
	}
	return nil, fmt.Errorf("this command requires the %s role (logged in as %s)", roles[0], user.Role)
}

// runWithApp adapts a command body to cobra's RunE, building the app first.
func runWithApp(fn func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return fn(cmd.Context(), a, cmd, args)
	}
}
