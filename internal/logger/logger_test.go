package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEmitJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")

	Info("webhook: received", map[string]interface{}{"chat_id": 42})

	var entry logEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "info" || entry.Message != "webhook: received" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Extra["chat_id"].(float64) != 42 {
		t.Errorf("expected chat_id 42, got %v", entry.Extra["chat_id"])
	}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	defer SetLevel("info")

	Debug("hidden", nil)
	Info("hidden", nil)
	Warn("shown", nil)
	Error("shown too", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}

func TestSetLevelUnknownFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("loud")
	defer SetLevel("info")

	Debug("hidden", nil)
	Info("shown", nil)

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the info line, got %q", buf.String())
	}
}
