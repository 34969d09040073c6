package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "debug", Format: LogFormatJSON}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.WithField("component", "orders").Debug("order placed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "orders" || entry["msg"] != "order placed" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLogger_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Format: LogFormatText}, &buf)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("unexpected level: %s", logger.GetLevel())
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "chatty"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
