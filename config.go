package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Capturer names accepted in export.capturer.
const (
	CapturerRaster = "raster"
	CapturerChrome = "chrome"
)

type Config struct {
	SaveDirectory string       `yaml:"save_directory"`
	LogFile       string       `yaml:"log_file"`
	LogLevel      slog.Level   `yaml:"log_level"`
	Confirmations bool         `yaml:"confirmations"`
	Canvas        CanvasConfig `yaml:"canvas"`
	Editor        EditorConfig `yaml:"editor"`
	Export        ExportConfig `yaml:"export"`
}

func (c *Config) Validate() error {
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

type CanvasConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Background string     `yaml:"background"`
	Format     PageFormat `yaml:"format"`
}

func (c *CanvasConfig) Validate() error {
	return c.Settings().Validate()
}

func (c *CanvasConfig) Settings() Settings {
	return Settings{Format: c.Format, Background: c.Background, Width: c.Width, Height: c.Height}
}

type EditorConfig struct {
	Grid            bool `yaml:"grid"`
	GridSize        int  `yaml:"grid_size"`
	Bounded         bool `yaml:"bounded"`
	MinSize         int  `yaml:"min_size"`
	GestureMinSize  int  `yaml:"gesture_min_size"`
	DuplicateOffset int  `yaml:"duplicate_offset"`
	Nudge           int  `yaml:"nudge"`
	NudgeFast       int  `yaml:"nudge_fast"`
	HistoryLimit    int  `yaml:"history_limit"`
	CellWidth       int  `yaml:"cell_width"`
	CellHeight      int  `yaml:"cell_height"`
}

func (c *EditorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.GridSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MinSize, validation.Required, validation.Min(minElementSize)),
		validation.Field(&c.GestureMinSize, validation.Required, validation.Min(c.MinSize)),
		validation.Field(&c.DuplicateOffset, validation.Min(0)),
		validation.Field(&c.Nudge, validation.Required, validation.Min(1)),
		validation.Field(&c.NudgeFast, validation.Required, validation.Min(1)),
		validation.Field(&c.HistoryLimit, validation.Min(0)),
		validation.Field(&c.CellWidth, validation.Required, validation.Min(1)),
		validation.Field(&c.CellHeight, validation.Required, validation.Min(1)),
	)
}

type ExportConfig struct {
	Capturer      string        `yaml:"capturer"`
	Scale         float64       `yaml:"scale"`
	Output        string        `yaml:"output"`
	ChromeTimeout time.Duration `yaml:"chrome_timeout"`
}

func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Capturer, validation.Required, validation.In(CapturerRaster, CapturerChrome)),
		validation.Field(&c.Scale, validation.Required, validation.Min(0.25), validation.Max(8.0)),
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.ChromeTimeout, validation.Required, validation.Min(time.Second)),
	)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:      slog.LevelInfo,
		Confirmations: true,
		Canvas: CanvasConfig{
			Width:      defaultCanvasW,
			Height:     defaultCanvasH,
			Background: defaultBackground,
			Format:     FormatA4,
		},
		Editor: EditorConfig{
			GridSize:        10,
			Bounded:         true,
			MinSize:         minElementSize,
			GestureMinSize:  minElementSize,
			DuplicateOffset: duplicateOffset,
			Nudge:           1,
			NudgeFast:       10,
			CellWidth:       8,
			CellHeight:      16,
		},
		Export: ExportConfig{
			Capturer:      CapturerRaster,
			Scale:         2,
			Output:        "easel.pdf",
			ChromeTimeout: 30 * time.Second,
		},
	}
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".easel.yaml"
	}
	return filepath.Join(homeDir, ".easel.yaml")
}

// LoadConfig reads a YAML config over the defaults. A missing file is not an
// error; the defaults are used as they are.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		path = defaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	cfg.LogFile = expandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
