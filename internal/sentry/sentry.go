package sentryutil

import (
	"echofilterbot/internal/config"
	"echofilterbot/internal/logger"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. An empty DSN leaves the SDK in
// no-op mode, so the capture helpers below are always safe to call.
func Init(cfg *config.Config) {
	dsn := cfg.SentryDSN
	token := cfg.BotToken
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.SentryEnvironment,
		Release:          cfg.SentryRelease,
		TracesSampleRate: 0.2,
		EnableTracing:    dsn != "",
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrub(event, token)
		},
	})
	if err != nil {
		logger.Warn("sentry: init failed (non-blocking)", map[string]interface{}{"error": err.Error()})
	}
	if dsn == "" {
		logger.Info("sentry: SENTRY_DSN empty, error tracking disabled", nil)
	} else {
		logger.Info("sentry: initialized", map[string]interface{}{"environment": cfg.SentryEnvironment})
	}
}

// scrub drops user data and any occurrence of the bot token.
func scrub(event *sentry.Event, token string) *sentry.Event {
	event.User = sentry.User{}
	if token == "" {
		return event
	}
	event.Message = strings.ReplaceAll(event.Message, token, "<token>")
	for i := range event.Exception {
		event.Exception[i].Value = strings.ReplaceAll(event.Exception[i].Value, token, "<token>")
	}
	if event.Request != nil {
		event.Request.URL = strings.ReplaceAll(event.Request.URL, token, "<token>")
	}
	return event
}

func Flush() { sentry.Flush(2 * time.Second) }

func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

func CaptureMessage(msg string, level sentry.Level, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureMessage(msg)
	})
}

// LevelWarning returns sentry.LevelWarning so callers don't need to import sentry-go directly.
func LevelWarning() sentry.Level { return sentry.LevelWarning }
