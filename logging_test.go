package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easel.log")
	logger, closeLog, err := newLogger(path, slog.LevelDebug)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Debug("command applied", slog.String("action", "add"))
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "command applied") || !strings.Contains(string(data), "action=add") {
		t.Errorf("log = %q", data)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "easel.log")
	logger, closeLog, err := newLogger(path, slog.LevelWarn)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("quiet")
	closeLog()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") {
		t.Errorf("info logged at warn level")
	}
}

func TestNewLogger_NoPath(t *testing.T) {
	logger, closeLog, err := newLogger("", slog.LevelInfo)
	if err != nil || logger == nil {
		t.Fatalf("logger: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Errorf("close: %v", err)
	}
}
