package config

import (
	"echofilterbot/internal/keychain"
	"echofilterbot/internal/logger"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// HealthPath is served by the health check and cannot host the webhook.
const HealthPath = "/healthz"

// Config holds all application configuration. It is loaded once at
// startup and passed by value or pointer to whoever needs it; nothing
// mutates it afterwards.
type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	WebhookPath string `env:"WEBHOOK_PATH" envDefault:"/"`

	// Telegram
	BotToken        string        `env:"TELEGRAM_BOT_TOKEN"`
	APIBaseURL      string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	ParseMode       string        `env:"TELEGRAM_PARSE_MODE" envDefault:"Markdown"`
	SendTimeout     time.Duration `env:"SEND_TIMEOUT" envDefault:"0s"`
	WebhookURL      string        `env:"WEBHOOK_URL"`
	KeychainAccount string        `env:"KEYCHAIN_ACCOUNT"`

	// Sentry
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	SentryRelease     string `env:"SENTRY_RELEASE" envDefault:"echofilterbot@1.0.0"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and parses the environment into a Config.
// An empty token is not an error here: the webhook reports it per request.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("config: no .env file found, using environment variables", nil)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if !strings.HasPrefix(cfg.WebhookPath, "/") {
		cfg.WebhookPath = "/" + cfg.WebhookPath
	}
	if cfg.WebhookPath == HealthPath {
		return nil, fmt.Errorf("config: WEBHOOK_PATH %s is reserved for the health check", HealthPath)
	}

	if cfg.BotToken == "" && cfg.KeychainAccount != "" {
		token, err := keychain.Get(cfg.KeychainAccount)
		if err != nil {
			logger.Warn("config: bot token not found in keychain", map[string]interface{}{
				"account": cfg.KeychainAccount,
				"error":   err.Error(),
			})
		}
		cfg.BotToken = token
	}

	return &cfg, nil
}

// HasToken reports whether the bot credential is configured.
func (c *Config) HasToken() bool { return c.BotToken != "" }

// Masked returns a loggable summary with secrets hidden.
func (c *Config) Masked() map[string]interface{} {
	return map[string]interface{}{
		"port":         c.Port,
		"webhook_path": c.WebhookPath,
		"api_url":      c.APIBaseURL,
		"parse_mode":   c.ParseMode,
		"send_timeout": c.SendTimeout.String(),
		"token":        maskToken(c.BotToken),
		"sentry":       c.SentryDSN != "",
		"register":     c.WebhookURL != "",
	}
}

func maskToken(token string) string {
	if token == "" {
		return "(missing)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
