package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/acmello/campusctl/internal/config"
	"github.com/acmello/campusctl/internal/metrics"
	"github.com/acmello/campusctl/internal/mockapi"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the in-memory development backend with seeded fixture data",
	RunE:  runDevServer,
}

func init() {
	rootCmd.AddCommand(devserverCmd)
}

func runDevServer(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	store := mockapi.NewStore()
	if err := mockapi.Seed(store); err != nil {
		return err
	}
	slog.Info("fixture data seeded",
		"admin", mockapi.SeedAdminEmail,
		"teacher", mockapi.SeedTeacherEmail,
		"student", mockapi.SeedStudentEmail)

	m := metrics.New()
	server := mockapi.NewServer(store, m, cfg.DevServer.JWTSecret, cfg.DevServer.TokenTTL)

	srv := &http.Server{
		Addr:         cfg.DevServerAddr(),
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("dev server starting", "addr", cfg.DevServerAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
