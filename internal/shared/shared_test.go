package shared

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("expected log output")
	}
}

func TestNewLoggerNilWriter(t *testing.T) {
	if logger := NewLogger(nil); logger == nil {
		t.Error("nil writer must fall back to stderr, not a nil logger")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aria.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("written to file")
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("GenerateID() must return unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() = %q, want UUID string form", a)
	}
}
