package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/guest-marketing/internal/api"
	"github.com/ignite/guest-marketing/internal/app"
	"github.com/ignite/guest-marketing/internal/config"
	"github.com/ignite/guest-marketing/internal/pkg/logger"
	"github.com/ignite/guest-marketing/internal/scheduler"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	return ln.Close()
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.ShouldRedactPII())

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		logger.Error("pre-flight check failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.Cloudbeds.APIKey == "" || cfg.Cloudbeds.PropertyID == "" {
		logger.Warn("cloudbeds credentials incomplete, pulls will be rejected")
	}
	if cfg.Auth.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set, admin routes are open")
	}

	var sched *scheduler.Scheduler
	if cfg.Sync.Schedule != "" {
		sched, err = scheduler.New(cfg.Sync.Schedule, a.Reservations, cfg.Sync.LockTTL())
		if err != nil {
			logger.Error("invalid sync schedule", "error", err)
			os.Exit(1)
		}
		sched.Start()
	}

	handlers := api.NewHandlers(cfg, a.Reservations, a.Contacts, a.Audience, a.Campaigns)
	health := api.NewHealthChecker(a.DB, a.Redis)
	server := api.NewServer(handlers, health, cfg.Auth.AdminToken)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
		logger.Info("starting server", "addr", addr, "storage", cfg.Database.Driver())
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	logger.Info("server stopped")
}
