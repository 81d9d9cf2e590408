package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v\n%s", err, line)
	}
	return entry
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	if buf.Len() != 0 {
		t.Errorf("below-level messages were written: %s", buf.String())
	}

	logger.Warn(ctx, "warn message")
	entry := decodeLogLine(t, &buf)
	if entry["level"] != "warn" || entry["msg"] != "warn message" {
		t.Errorf("entry = %v", entry)
	}
}

func TestLogger_WithRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	routeLogger := logger.WithRoute(RouteMeta{
		Name:    "catalog.products.list",
		Method:  "GET",
		Pattern: "/products",
		Version: "1.0",
	})
	routeLogger.Info(context.Background(), "request completed")

	entry := decodeLogLine(t, &buf)
	if entry["route.name"] != "catalog.products.list" {
		t.Errorf("route.name = %v", entry["route.name"])
	}
	if entry["http.method"] != "GET" {
		t.Errorf("http.method = %v", entry["http.method"])
	}
	if entry["api.version"] != "1.0" {
		t.Errorf("api.version = %v", entry["api.version"])
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "token issued",
		Field{Key: "username", Value: "r2d2"},
		Field{Key: "password", Value: "010101"},
		Field{Key: "access_token", Value: "eyJhbGciOi..."},
	)

	entry := decodeLogLine(t, &buf)
	if entry["username"] != "r2d2" {
		t.Errorf("username = %v, want r2d2", entry["username"])
	}
	if entry["password"] != "[REDACTED]" {
		t.Errorf("password = %v, want [REDACTED]", entry["password"])
	}
	if entry["access_token"] != "[REDACTED]" {
		t.Errorf("access_token = %v, want [REDACTED]", entry["access_token"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
