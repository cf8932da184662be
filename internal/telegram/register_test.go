package telegram

import (
	"context"
	"echofilterbot/internal/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegisterWebhookSkippedWithoutURL(t *testing.T) {
	if err := RegisterWebhook(context.Background(), &config.Config{}); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestRegisterWebhookRequiresToken(t *testing.T) {
	cfg := &config.Config{WebhookURL: "https://example.com/hook"}
	if err := RegisterWebhook(context.Background(), cfg); err == nil {
		t.Error("expected error without token")
	}
}

func TestRegisterWebhookSendsSetWebhook(t *testing.T) {
	token := "123456:" + strings.Repeat("A", 35)

	var gotPath string
	var gotBody struct {
		URL            string   `json:"url"`
		AllowedUpdates []string `json:"allowed_updates"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		BotToken:   token,
		APIBaseURL: server.URL,
		WebhookURL: "https://example.com/hook",
	}
	if err := RegisterWebhook(context.Background(), cfg); err != nil {
		t.Fatalf("RegisterWebhook: %v", err)
	}

	if gotPath != "/bot"+token+"/setWebhook" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotBody.URL != "https://example.com/hook" {
		t.Errorf("unexpected url: %q", gotBody.URL)
	}
	if len(gotBody.AllowedUpdates) != 1 || gotBody.AllowedUpdates[0] != "message" {
		t.Errorf("unexpected allowed_updates: %v", gotBody.AllowedUpdates)
	}
}

func TestRegisterWebhookAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: bad webhook"}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		BotToken:   "123456:" + strings.Repeat("A", 35),
		APIBaseURL: server.URL,
		WebhookURL: "http://insecure.example.com/hook",
	}
	if err := RegisterWebhook(context.Background(), cfg); err == nil {
		t.Error("expected error when the API rejects the webhook")
	}
}
