package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/storefront/internal/infrastructure/config"
)

func TestConsoleHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil)).With("system", "cart")

	logger.Info("item added", "title", "Velvet Jacket", "quantity", 2)

	line := buf.String()
	assert.Regexp(t, `^\[INFO\] \[cart\] \[\d{2}:\d{2}:\d{2}\] item added title=Velvet Jacket quantity=2\n$`, line)
	assert.NotContains(t, line, "\033[", "colors must be off for non-terminal writers")
}

func TestConsoleHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil))

	logger.WithGroup("payment").Warn("declined", "method", "stripe")
	logger.Info("totals", slog.Group("amount", "subtotal", "40.00", "tax", "4.00"))

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "payment.method=stripe")
	assert.Contains(t, out, "amount.subtotal=40.00 amount.tax=4.00")
}

func TestConsoleHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "warn"})

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[ERROR]")
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	logger.Info("order placed", "order_id", "NS-1")

	assert.Contains(t, buf.String(), `"msg":"order placed"`)
	assert.Contains(t, buf.String(), `"order_id":"NS-1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
