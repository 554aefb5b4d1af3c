package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrefixWriterBuffersPartialLines(t *testing.T) {
	var out bytes.Buffer
	w := NewPrefixWriter("> ", &out)

	if _, err := w.Write([]byte("first li")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected partial line to be held, got %q", out.String())
	}
	if _, err := w.Write([]byte("ne\nsecond\nthi")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := out.String(); got != "> first line\n> second\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLevelPrecedence(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	if got := Level("trace"); got != "trace" {
		t.Fatalf("expected flag to win, got %q", got)
	}
	if got := Level(""); got != "debug" {
		t.Fatalf("expected env level, got %q", got)
	}
	t.Setenv(EnvLogLevel, "loud")
	if got := Level(""); got != DefaultLevel {
		t.Fatalf("expected default for unknown level, got %q", got)
	}
}

func TestNewWritesPrefixedText(t *testing.T) {
	t.Setenv(EnvJSONLog, "")
	var out bytes.Buffer
	logger := New("devinfo", "info", &out)
	logger.Info("collected", "fields", 3)

	line := out.String()
	if !strings.HasPrefix(line, "devinfo ") || !strings.Contains(line, "collected") || !strings.Contains(line, "fields=3") {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestNewWritesJSON(t *testing.T) {
	t.Setenv(EnvJSONLog, "1")
	var out bytes.Buffer
	New("devinfo", "info", &out).Info("collected")
	if !strings.HasPrefix(out.String(), "{") {
		t.Fatalf("expected JSON output, got %q", out.String())
	}
}
