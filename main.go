package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

// session is what both commands share: config, logger and the capturer.
type session struct {
	cfg      *Config
	logger   *slog.Logger
	capturer Capturer
	closers  []func() error
}

func newSession(configPath, capturerName string) (*session, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if capturerName != "" {
		cfg.Export.Capturer = capturerName
		if err := cfg.Export.Validate(); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	switch cfg.Export.Capturer {
	case CapturerChrome:
		chrome := newChromeCapturer(cfg.Export.ChromeTimeout, logger)
		s.capturer = chrome
		s.closers = append(s.closers, func() error { chrome.Close(); return nil })
	default:
		raster, err := newRasterCapturer()
		if err != nil {
			s.Close()
			return nil, err
		}
		s.capturer = raster
	}
	return s, nil
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// presenter returns the capturer itself when it needs the frame laid out
// before capture.
func (s *session) presenter() Presenter {
	if p, ok := s.capturer.(Presenter); ok {
		return p
	}
	return immediatePresenter
}

func run(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd.String("config"), "")
	if err != nil {
		return err
	}
	defer s.Close()

	m := newModel(s.cfg, s.logger, s.capturer)
	path := cmd.Args().First()
	if path != "" {
		path = withExt(path, documentExt)
		doc, err := LoadDocument(path)
		switch {
		case err == nil:
			m.open(doc, path)
		case errors.Is(err, os.ErrNotExist):
			m.filename = path
			m.mode = ModeNormal
		default:
			return fmt.Errorf("open %s: %w", path, err)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cmd.Bool("watch") && path != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := watchDocument(watchCtx, path, s.logger, func(changed string) {
				p.Send(docChangedMsg{path: changed})
			})
			if err != nil {
				s.logger.Warn("watcher failed", slog.String("path", path), slog.String("error", err.Error()))
			}
		}()
	}

	s.logger.Info("editor started", slog.String("file", path))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("export needs a document file")
	}
	s, err := newSession(cmd.String("config"), cmd.String("capturer"))
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := LoadDocument(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	format := doc.Settings.Format
	if f := cmd.String("format"); f != "" {
		format = PageFormat(strings.ToLower(f))
		if format != FormatA4 && format != FormatLetter && format != FormatCustom {
			return fmt.Errorf("%w: unknown page format %q", ErrInvalid, f)
		}
	}
	out := cmd.String("output")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	}

	editor := NewEditor(doc.Settings, NewViewport(s.cfg.Editor), s.cfg.Editor, s.logger)
	if r := editor.Load(doc); r != Applied {
		return r.Err()
	}
	c, err := editor.Export(ctx, s.cfg.Export.Scale, s.presenter(), s.capturer)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := writePDFFile(out, c, format); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	s.logger.Info("export written", slog.String("path", out), slog.Int("width", c.Width), slog.Int("height", c.Height))
	fmt.Fprintf(os.Stdout, "exported %s (%dx%d px)\n", out, c.Width, c.Height)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "easel",
		Usage:     "Terminal layout editor with PDF export",
		ArgsUsage: "[file]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default ~/.easel.yaml)",
				Sources: cli.EnvVars("EASEL_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Reload the document when it changes on disk",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "export",
				Usage:     "Export a saved layout to PDF without opening the editor",
				ArgsUsage: "<file>",
				Action:    runExport,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output PDF path (default: the document name with .pdf)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Page format: a4, letter or custom (default: the document's format)",
					},
					&cli.StringFlag{
						Name:  "capturer",
						Usage: "Capture backend: raster or chrome (default: from config)",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
