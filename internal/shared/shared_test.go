package shared

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if len(first) != 36 {
		t.Errorf("expected UUID string length 36, got %d", len(first))
	}
	if first == second {
		t.Error("expected unique IDs")
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}
	if first == second {
		t.Error("expected unique state tokens")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")

	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected log output, got %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")

	logger.Info("tagged")

	if !bytes.Contains(buf.Bytes(), []byte("component")) {
		t.Errorf("expected child logger fields, got %q", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.ErrorLevel)

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected info suppressed at error level, got %q", buf.String())
	}

	logger.Error("visible")
	if buf.Len() == 0 {
		t.Error("expected error output at error level")
	}
}
