package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "easel.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := NewDefaultConfig()
	if cfg.Editor != def.Editor || cfg.Export != def.Export || cfg.Canvas != def.Canvas {
		t.Errorf("defaults not used: %+v", cfg)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	saveDir := t.TempDir()
	t.Setenv("EASEL_TEST_SAVE_DIR", saveDir)
	path := writeConfig(t, `
save_directory: ${EASEL_TEST_SAVE_DIR}
log_level: DEBUG
canvas:
  format: letter
editor:
  grid: true
  grid_size: 20
export:
  capturer: chrome
  chrome_timeout: 45s
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SaveDirectory != saveDir {
		t.Errorf("save_directory = %q, want %q", cfg.SaveDirectory, saveDir)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log_level = %v", cfg.LogLevel)
	}
	if cfg.Canvas.Format != FormatLetter || cfg.Canvas.Width != defaultCanvasW {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if !cfg.Editor.Grid || cfg.Editor.GridSize != 20 || cfg.Editor.MinSize != minElementSize {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if cfg.Export.Capturer != CapturerChrome || cfg.Export.ChromeTimeout != 45*time.Second {
		t.Errorf("export = %+v", cfg.Export)
	}
	if got := cfg.GetSavePath("a.json"); got != filepath.Join(saveDir, "a.json") {
		t.Errorf("save path = %q", got)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"capturer": "export:\n  capturer: gpu\n",
		"scale":    "export:\n  scale: 20\n",
		"min size": "editor:\n  min_size: 4\n",
		"gesture":  "editor:\n  gesture_min_size: 5\n",
		"canvas":   "canvas:\n  background: blue\n",
		"not yaml": "editor: [",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestGetSavePath_Absolute(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SaveDirectory = t.TempDir()
	abs := filepath.Join(t.TempDir(), "x.json")
	if got := cfg.GetSavePath(abs); got != abs {
		t.Errorf("absolute path rewritten to %q", got)
	}
}
