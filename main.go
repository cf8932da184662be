package main

import (
	"context"
	"echofilterbot/internal/config"
	"echofilterbot/internal/handlers"
	"echofilterbot/internal/keychain"
	"echofilterbot/internal/logger"
	"echofilterbot/internal/middleware"
	sentryutil "echofilterbot/internal/sentry"
	"echofilterbot/internal/telegram"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
)

func main() {
	// "store-token" saves a token read from stdin into the keychain and exits.
	if len(os.Args) > 1 && os.Args[1] == "store-token" {
		os.Exit(storeToken())
	}

	// Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Info("config: loaded", cfg.Masked())

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init(cfg)
	defer sentryutil.Flush()

	if !cfg.HasToken() {
		// Keep serving: the webhook answers 500 until the token is provided.
		logger.Error("config: TELEGRAM_BOT_TOKEN is not set, webhook will answer 500", nil)
		sentryutil.CaptureMessage("TELEGRAM_BOT_TOKEN not set", sentryutil.LevelWarning(),
			map[string]string{"phase": "startup"})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telegram.RegisterWebhook(ctx, cfg); err != nil {
		logger.Warn("telegram: webhook registration failed", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"phase": "register"})
	}

	sender := telegram.NewSender(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc(config.HealthPath, handlers.HealthHandler(cfg))
	mux.Handle(cfg.WebhookPath, handlers.NewWebhook(cfg, sender))

	// Wrap with middleware: Sentry hub → Recovery → RequestID → SecurityHeaders → AccessLog
	var handler http.Handler = middleware.AccessLog(mux)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)
	handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("server shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", map[string]interface{}{"error": err.Error()})
		}
	}()

	logger.Info("server starting", map[string]interface{}{"port": cfg.Port, "webhook_path": cfg.WebhookPath})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", map[string]interface{}{"error": err.Error()})
		sentryutil.Flush()
		os.Exit(1)
	}
}

func storeToken() int {
	account := os.Getenv("KEYCHAIN_ACCOUNT")
	if err := keychain.StoreToken(os.Stdin, account); err != nil {
		logger.Error("keychain: store token failed", map[string]interface{}{"error": err.Error()})
		return 1
	}
	logger.Info("keychain: token stored", map[string]interface{}{"account": account})
	return 0
}
