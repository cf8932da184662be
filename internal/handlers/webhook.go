package handlers

import (
	"context"
	"echofilterbot/internal/config"
	"echofilterbot/internal/logger"
	"echofilterbot/internal/middleware"
	sentryutil "echofilterbot/internal/sentry"
	"echofilterbot/internal/telegram"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mymmrac/telego"
)

// Response bodies of the webhook route. These and their status codes are
// the only answers the provider ever sees.
const (
	BodyMethodNotAllowed = "Method Not Allowed. Use POST."
	BodyMisconfigured    = "Server Misconfigured: TELEGRAM_BOT_TOKEN is not set."
	BodyOK               = "OK"
	BodyErrorAck         = "Error encountered but acknowledged successfully."
)

// Updates larger than this are truncated and fail to decode.
const maxUpdateBytes = 1 << 20

// ReplySender delivers a reply and reports the outcome without failing.
type ReplySender interface {
	Send(ctx context.Context, reply telegram.Reply) telegram.Outcome
}

// Webhook handles Telegram update deliveries. Anything that goes wrong
// after the request is accepted is still answered with 200 so Telegram
// does not redeliver the update.
type Webhook struct {
	token  string
	sender ReplySender
}

// NewWebhook creates the update handler. Only the bot token is read from cfg.
func NewWebhook(cfg *config.Config, sender ReplySender) *Webhook {
	return &Webhook{token: cfg.BotToken, sender: sender}
}

func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeText(w, http.StatusMethodNotAllowed, BodyMethodNotAllowed)
		return
	}

	reqID := middleware.RequestIDFrom(r.Context())
	if h.token == "" {
		logger.Error("webhook: TELEGRAM_BOT_TOKEN is not set", map[string]interface{}{"request_id": reqID})
		writeText(w, http.StatusInternalServerError, BodyMisconfigured)
		return
	}

	if err := h.process(r); err != nil {
		logger.Error("webhook: update not handled", map[string]interface{}{
			"request_id": reqID,
			"error":      err.Error(),
		})
		sentryutil.CaptureError(err, map[string]string{"handler": "webhook", "request_id": reqID})
		writeText(w, http.StatusOK, BodyErrorAck)
		return
	}
	writeText(w, http.StatusOK, BodyOK)
}

// process decodes one update and sends the reply. Panics are turned into
// errors so the acknowledgment is still written.
func (h *Webhook) process(r *http.Request) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while handling update: %v", p)
		}
	}()

	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxUpdateBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var update telego.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}

	if update.Message == nil {
		logger.Debug("webhook: update without message, ignored", map[string]interface{}{"update_id": update.UpdateID})
		return nil
	}

	msg := update.Message
	reply, err := telegram.NewReply(msg.Chat.ID, telegram.ReplyText(msg.Text))
	if err != nil {
		return fmt.Errorf("update %d: %w", update.UpdateID, err)
	}

	// The reply outlives a dropped webhook connection.
	out := h.sender.Send(context.WithoutCancel(r.Context()), reply)
	logger.Info("webhook: update handled", map[string]interface{}{
		"request_id": middleware.RequestIDFrom(r.Context()),
		"update_id":  update.UpdateID,
		"chat_id":    msg.Chat.ID,
		"delivered":  out.Delivered(),
		"status":     out.Status,
	})
	return nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// HealthHandler reports liveness and whether the webhook can reply.
func HealthHandler(cfg *config.Config) http.HandlerFunc {
	ready := cfg.HasToken()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":        "ok",
			"webhook_ready": ready,
		})
	}
}
