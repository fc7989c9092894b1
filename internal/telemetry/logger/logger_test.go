package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"text format", Config{Level: "debug", Format: "text"}},
		{"console format", Config{Level: "info", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if l := New(tt.cfg); l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.With("shard", 3).Debug("shard rehashed", "from", 8, "to", 16)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "shard rehashed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "shard rehashed")
	}
	if entry["shard"] != float64(3) || entry["to"] != float64(16) {
		t.Errorf("fields = %v", entry)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "text", Output: &buf})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were logged: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn/error messages missing: %q", out)
	}
	if l.Enabled(slog.LevelInfo) {
		t.Error("Enabled(info) = true at warn level")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "error", Format: "text", Output: &buf})
	child := l.With("component", "test")

	child.Info("hidden")
	SetLevel(l, "debug")
	child.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("message logged before level change")
	}
	if !strings.Contains(out, "visible") {
		t.Error("child logger did not follow the level change")
	}
}

func TestFromSlogAndNop(t *testing.T) {
	var buf bytes.Buffer
	l := FromSlog(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Error("FromSlog logger did not write")
	}

	if FromSlog(nil).Enabled(slog.LevelError) {
		t.Error("FromSlog(nil) should discard everything")
	}
	Nop().Error("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
