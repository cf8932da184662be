package telegram

import (
	"bytes"
	"context"
	"echofilterbot/internal/config"
	"echofilterbot/internal/logger"
	sentryutil "echofilterbot/internal/sentry"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed API response is logged.
const maxErrorBody = 4 << 10

// Outcome describes what happened to one send attempt. Send never returns
// an error: failures are logged and reported here for the caller to inspect.
type Outcome struct {
	Skipped bool
	Status  int
	Err     error
}

// Delivered reports whether the API accepted the message.
func (o Outcome) Delivered() bool {
	return !o.Skipped && o.Err == nil && o.Status >= 200 && o.Status < 300
}

// Sender posts replies to the Bot API sendMessage method.
type Sender struct {
	token     string
	baseURL   string
	parseMode string
	client    *http.Client
}

// NewSender creates a sender from configuration. A zero SendTimeout leaves
// the request unbounded.
func NewSender(cfg *config.Config) *Sender {
	return &Sender{
		token:     cfg.BotToken,
		baseURL:   cfg.APIBaseURL,
		parseMode: cfg.ParseMode,
		client:    &http.Client{Timeout: cfg.SendTimeout},
	}
}

// WithBaseURL sets a custom base URL (for testing).
func (s *Sender) WithBaseURL(baseURL string) *Sender {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// WithHTTPClient replaces the HTTP client.
func (s *Sender) WithHTTPClient(client *http.Client) *Sender {
	s.client = client
	return s
}

// Send delivers one reply. It makes at most one request and never retries.
func (s *Sender) Send(ctx context.Context, reply Reply) Outcome {
	if s.token == "" {
		logger.Error("telegram: bot token missing, reply not sent", map[string]interface{}{"chat_id": reply.ChatID})
		return Outcome{Skipped: true}
	}
	if s.parseMode != "" {
		reply.ParseMode = s.parseMode
	}

	body, err := json.Marshal(reply.Params())
	if err != nil {
		err = fmt.Errorf("encode sendMessage: %w", err)
		logger.Error("telegram: "+err.Error(), map[string]interface{}{"chat_id": reply.ChatID})
		return Outcome{Err: err}
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		err = s.redactErr(fmt.Errorf("create request: %w", err))
		logger.Error("telegram: "+err.Error(), map[string]interface{}{"chat_id": reply.ChatID})
		return Outcome{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		err = s.redactErr(fmt.Errorf("telegram request: %w", err))
		logger.Error("telegram: send failed", map[string]interface{}{
			"chat_id": reply.ChatID,
			"error":   err.Error(),
		})
		sentryutil.CaptureError(err, map[string]string{"component": "sender", "phase": "transport"})
		return Outcome{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("telegram: API rejected reply", map[string]interface{}{
			"chat_id": reply.ChatID,
			"status":  resp.StatusCode,
			"body":    string(respBody),
		})
		sentryutil.CaptureError(fmt.Errorf("telegram API error %d", resp.StatusCode),
			map[string]string{"component": "sender", "phase": "response"})
		return Outcome{Status: resp.StatusCode}
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	logger.Debug("telegram: reply sent", map[string]interface{}{"chat_id": reply.ChatID, "status": resp.StatusCode})
	return Outcome{Status: resp.StatusCode}
}

// redactErr keeps the token out of errors that embed the request URL.
func (s *Sender) redactErr(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, s.token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, s.token, "<token>"))
}
