package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 36 {
			t.Fatalf("expected uuid string, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("writes to provided writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)

		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		if NewLogger(nil) == nil {
			t.Error("expected logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := WithLogger(NewLogger(buf), "request_id", "abc123")

	logger.Info("tagged")

	if !strings.Contains(buf.String(), "abc123") {
		t.Errorf("expected request_id in output, got %q", buf.String())
	}
}
