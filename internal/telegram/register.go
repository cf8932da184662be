package telegram

import (
	"context"
	"echofilterbot/internal/config"
	"echofilterbot/internal/logger"
	"fmt"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
)

const registerTimeout = 10 * time.Second

// RegisterWebhook points the bot at cfg.WebhookURL. It is a no-op when no
// URL is configured.
func RegisterWebhook(ctx context.Context, cfg *config.Config) error {
	if cfg.WebhookURL == "" {
		logger.Info("telegram: WEBHOOK_URL not set, skipping webhook registration", nil)
		return nil
	}
	if !cfg.HasToken() {
		return fmt.Errorf("register webhook: bot token missing")
	}

	bot, err := telego.NewBot(cfg.BotToken,
		telego.WithAPIServer(cfg.APIBaseURL),
		telego.WithHTTPClient(&http.Client{Timeout: registerTimeout}),
		telego.WithDiscardLogger(),
	)
	if err != nil {
		return fmt.Errorf("register webhook: create bot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	err = bot.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:            cfg.WebhookURL,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}

	logger.Info("telegram: webhook registered", map[string]interface{}{"url": cfg.WebhookURL})
	return nil
}
