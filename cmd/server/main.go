package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/postpanda/mailmerge/internal/api"
	"github.com/postpanda/mailmerge/internal/config"
	"github.com/postpanda/mailmerge/pkg/logger"
	"github.com/postpanda/mailmerge/pkg/oauth"
	"github.com/postpanda/mailmerge/pkg/session"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	providers := make(map[string]oauth.Provider)
	if cfg.GoogleConfigured() {
		p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.CallbackURL(oauth.GoogleProviderName),
		})
		if err != nil {
			log.Error("failed to configure google oauth", "error", err)
			os.Exit(1)
		}
		providers[oauth.GoogleProviderName] = p
	}
	if cfg.MicrosoftConfigured() {
		p, err := oauth.NewMicrosoftProvider(oauth.MicrosoftConfig{
			ClientID:     cfg.MicrosoftClientID,
			ClientSecret: cfg.MicrosoftClientSecret,
			Tenant:       cfg.MicrosoftTenant,
			RedirectURL:  cfg.CallbackURL(oauth.MicrosoftProviderName),
		})
		if err != nil {
			log.Error("failed to configure microsoft oauth", "error", err)
			os.Exit(1)
		}
		providers[oauth.MicrosoftProviderName] = p
	}

	sessions := session.New()
	defer sessions.Close()
	accounts := oauth.NewStore()

	handler := api.New(log, cfg, sessions, accounts, providers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server starting",
			"port", cfg.Port,
			"frontend", cfg.FrontendOrigin,
			"google", cfg.GoogleConfigured(),
			"microsoft", cfg.MicrosoftConfigured(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
