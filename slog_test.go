package cosmolog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogHandlerEmitsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(testConfig(LevelInfo), "app", &buf))

	logger.Info("service started",
		"user", "alice",
		"count", 42,
		"ratio", 0.5,
		"ready", true,
	)

	e, err := DecodeString(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if e.StreamName != "app" || e.Origin != "test.example.com" {
		t.Errorf("decoded %#v", e)
	}
	if e.Level != LevelInfo {
		t.Errorf("level = %v", e.Level)
	}
	if e.Format != "service started" {
		t.Errorf("format = %q", e.Format)
	}
	checks := map[string]Value{
		"user":  String("alice"),
		"count": Int(42),
		"ratio": Float(0.5),
		"ready": Bool(true),
	}
	for key, want := range checks {
		if v, ok := e.Payload.Get(key); !ok || !v.Equal(want) {
			t.Errorf("payload[%q] = %#v (found %v), want %#v", key, v, ok, want)
		}
	}
}

func TestSlogHandlerLevelMapping(t *testing.T) {
	tests := []struct {
		slogLevel slog.Level
		want      Level
	}{
		{slog.LevelError, LevelError},
		{slog.LevelWarn, LevelWarn},
		{slog.LevelInfo, LevelInfo},
		{slog.LevelDebug, LevelDebug},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(NewSlogHandler(testConfig(LevelTrace), "app", &buf))
		logger.Log(context.Background(), tt.slogLevel, "m")
		e, err := DecodeString(strings.TrimSpace(buf.String()))
		if err != nil {
			t.Fatal(err)
		}
		if e.Level != tt.want {
			t.Errorf("slog %v -> %v, want %v", tt.slogLevel, e.Level, tt.want)
		}
	}
}

func TestSlogHandlerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(testConfig(LevelInfo), "app", &buf))
	logger.Debug("too quiet")
	if buf.Len() != 0 {
		t.Errorf("debug must be filtered at INFO, got %q", buf.String())
	}
}

func TestSlogHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(testConfig(LevelInfo), "app", &buf))

	logger.With("svc", "api").WithGroup("req").With("id", "abc123").Info("handled", "ms", 12)

	e, err := DecodeString(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	checks := map[string]Value{
		"svc":    String("api"),
		"req.id": String("abc123"),
		"req.ms": Int(12),
	}
	for key, want := range checks {
		if v, ok := e.Payload.Get(key); !ok || !v.Equal(want) {
			t.Errorf("payload[%q] = %#v (found %v), want %#v", key, v, ok, want)
		}
	}
}

func TestSlogHandlerStringifiesNonScalars(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(testConfig(LevelInfo), "app", &buf))

	logger.Info("m", "list", []int{1, 2, 3})

	e, err := DecodeString(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := e.Payload.Get("list")
	if !ok || v.Kind() != KindString {
		t.Fatalf("list = %#v (found %v), want stringified", v, ok)
	}
	if v.Text() != "[1 2 3]" {
		t.Errorf("list = %q", v.Text())
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"dotted.key", "dotted.key"},
		{"has space", "has_space"},
		{"_leading", "x_leading"},
		{"", "x"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := sanitizeKey(tt.in); got != tt.want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
