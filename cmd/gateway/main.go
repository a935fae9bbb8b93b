// cmd/gateway/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/config"
	"github.com/oxaDeveloper/e-commerce-task/internal/interfaces/http"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/logger"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/storage"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg)
	logg.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}
	defer store.Close()

	// The backend client reads the bearer token from storage on every
	// request, so a token persisted by login is used immediately.
	client := backend.New(cfg, logg, func() string {
		token, err := store.Get(context.Background(), storage.KeyToken)
		if err != nil {
			return ""
		}
		return token
	})

	sess := session.New(session.NewStore(), client, store, logg)
	client.SetUnauthorizedCallback(sess.ForceLogout)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sess.Bootstrap(bootCtx); err != nil {
		logg.WithError(err).Warn("Session bootstrap incomplete")
	}
	bootCancel()

	server := http.NewServer(cfg, sess, store, logg)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logg.Info("Server shutdown completed")
}
