package cosmolog

import (
	"bytes"
	"strings"
	"testing"
)

func testConfig(level Level) *Config {
	return &Config{
		Origin:    "test.example.com",
		Level:     level,
		Formatter: FormatterEvent,
		Version:   SchemaVersion,
	}
}

func TestLoggerEmitsDecodableLines(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(testConfig(LevelInfo), "telemetry", &buf)
	if err != nil {
		t.Fatal(err)
	}

	payload := NewPayload().Set("gravity", Float(1.8))
	if err := l.Info("gravity={gravity}", payload); err != nil {
		t.Fatal(err)
	}

	line := buf.String()
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", line)
	}
	e, err := DecodeString(strings.TrimSpace(line))
	if err != nil {
		t.Fatal(err)
	}
	if e.StreamName != "telemetry" || e.Origin != "test.example.com" || e.Level != LevelInfo {
		t.Errorf("decoded %#v", e)
	}
	if e.Format != "gravity={gravity}" {
		t.Errorf("format = %q", e.Format)
	}
	if v, _ := e.Payload.Get("gravity"); !v.Equal(Float(1.8)) {
		t.Errorf("gravity = %#v", v)
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(testConfig(LevelInfo), "telemetry", &buf)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Debug("too quiet", nil); err != nil {
		t.Fatal(err)
	}
	if err := l.Trace("quieter still", nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("below-threshold events must be dropped, got %q", buf.String())
	}

	if err := l.Error("loud", nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("above-threshold event was dropped")
	}
}

func TestLoggerRejectsBadStream(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(testConfig(LevelInfo), "%&^", &buf); err == nil {
		t.Error("expected validation error for bad stream name")
	}
}

func TestLoggerException(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(testConfig(LevelInfo), "app", &buf)
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Exception("goroutine 1 [running]:\nmain.main()", "request failed", nil); err != nil {
		t.Fatal(err)
	}
	e, err := DecodeString(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if e.Level != LevelError {
		t.Errorf("level = %v, want ERROR", e.Level)
	}
	if e.Format != "request failed\n{exc_text}" {
		t.Errorf("format = %q", e.Format)
	}
	if v, ok := e.Payload.Get(ExcTextKey); !ok || !strings.HasPrefix(v.Text(), "goroutine 1") {
		t.Errorf("exc_text = %#v (found %v)", v, ok)
	}
}

func TestLoggerLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(testConfig(LevelTrace), "app", &buf)
	if err != nil {
		t.Fatal(err)
	}

	calls := []struct {
		log  func(string, *Payload) error
		want Level
	}{
		{l.Fatal, LevelFatal},
		{l.Error, LevelError},
		{l.Warn, LevelWarn},
		{l.Info, LevelInfo},
		{l.Debug, LevelDebug},
		{l.Trace, LevelTrace},
	}
	for _, c := range calls {
		buf.Reset()
		if err := c.log("m", nil); err != nil {
			t.Fatal(err)
		}
		e, err := DecodeString(strings.TrimSpace(buf.String()))
		if err != nil {
			t.Fatal(err)
		}
		if e.Level != c.want {
			t.Errorf("level = %v, want %v", e.Level, c.want)
		}
	}
}
