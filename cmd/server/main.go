package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dealwire/dealbot/internal/ai"
	"github.com/dealwire/dealbot/internal/config"
	"github.com/dealwire/dealbot/internal/extract"
	"github.com/dealwire/dealbot/internal/notifier"
	"github.com/dealwire/dealbot/internal/pipeline"
	"github.com/dealwire/dealbot/internal/publisher"
	"github.com/dealwire/dealbot/internal/resolver"
	"github.com/dealwire/dealbot/internal/scheduler"
	"github.com/dealwire/dealbot/internal/store"
	"github.com/dealwire/dealbot/internal/telegram"
	"github.com/dealwire/dealbot/internal/validator"
)

const dispatchTimeout = 4 * time.Minute

type server struct {
	store *store.Store
}

func main() {
	slog.Info("Starting deal bot server...")
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	aiClient, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Warn("AI name cleanup unavailable", "error", err)
	}

	st := store.New()
	res := resolver.New(cfg.ResolveTimeout)

	var opts []extract.Option
	if aiClient != nil {
		opts = append(opts, extract.WithNameCleaner(aiClient))
	}
	ext := extract.New(res, cfg.AffiliateTag, opts...)

	pipe := pipeline.New(ext, st, validator.New())

	tg, err := telegram.New(cfg.TelegramToken, pipe)
	if err != nil {
		slog.Error("Critical error initializing Telegram adapter", "error", err)
		os.Exit(1)
	}

	fb := notifier.NewFacebook(cfg.FBAppID, cfg.FBAppSecret, cfg.FBAccessToken)
	ig := notifier.NewInstagram(cfg.IGUsername, cfg.IGPassword)
	pub := publisher.New(fb, ig, tg)

	sched := scheduler.New(st, pub, dispatchTimeout)
	if err := sched.Start(cfg.PostSchedule); err != nil {
		slog.Error("Critical error starting scheduler", "error", err)
		os.Exit(1)
	}

	srv := &server{store: st}
	mux := http.NewServeMux()
	mux.HandleFunc("/deals", srv.dealsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go tg.Start()

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		tg.Stop()
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}

// dealsHandler returns the full deal record in insertion order.
func (s *server) dealsHandler(w http.ResponseWriter, r *http.Request) {
	deals := s.store.Deals()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(deals); err != nil {
		slog.Error("Failed to encode deals", "error", err)
	}
}
