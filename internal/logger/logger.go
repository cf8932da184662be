package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type logEntry struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

var (
	mu       sync.RWMutex
	output   = log.New(os.Stdout, "", 0)
	minLevel = levels["info"]
)

// SetOutput redirects log lines, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = log.New(w, "", 0)
}

// SetLevel sets the minimum level emitted. Unknown names fall back to info.
func SetLevel(name string) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		lvl = levels["info"]
	}
	mu.Lock()
	minLevel = lvl
	mu.Unlock()
}

func emit(level, msg string, extra map[string]interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if levels[level] < minLevel {
		return
	}
	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Extra:     extra,
	}
	data, _ := json.Marshal(entry)
	output.Println(string(data))
}

func Debug(msg string, extra map[string]interface{}) {
	emit("debug", msg, extra)
}

func Info(msg string, extra map[string]interface{}) {
	emit("info", msg, extra)
}

func Warn(msg string, extra map[string]interface{}) {
	emit("warn", msg, extra)
}

func Error(msg string, extra map[string]interface{}) {
	emit("error", msg, extra)
}
