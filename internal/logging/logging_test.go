package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriterTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("job submitted", "job", "edit::seqret/0:0:1")

	output := buf.String()
	if !strings.Contains(output, "job submitted") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "job=edit::seqret/0:0:1") {
		t.Errorf("expected job attribute in output, got: %s", output)
	}
}

func TestNewLoggerWithWriterJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "json", &buf)

	logger.Info("job submitted", "analysis", "edit::seqret")

	output := buf.String()
	if !strings.Contains(output, `"msg":"job submitted"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"analysis":"edit::seqret"`) {
		t.Errorf("expected JSON attribute in output, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("filtered")
	logger.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "filtered") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestChildLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelDebug, "text", &buf)
	child := logger.With("component", "soap-protocol")

	child.Debug("soap call", "method", "getStatus")

	output := buf.String()
	if !strings.Contains(output, "component=soap-protocol") {
		t.Errorf("expected component in output, got: %s", output)
	}
	if !strings.Contains(output, "method=getStatus") {
		t.Errorf("expected method in output, got: %s", output)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic; output goes nowhere.
	Discard().Error("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
