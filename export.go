package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	frameRetry    = 16 * time.Millisecond
	maxFrameWaits = 120
)

// presentation records the last export frame View drew. It is shared by
// pointer because View has a value receiver.
type presentation struct {
	seq int
}

type (
	// frameCommittedMsg arrives after the View that followed BeginExport.
	frameCommittedMsg struct {
		seq     int
		attempt int
	}
	captureDoneMsg struct {
		capture Capture
		err     error
	}
	exportWrittenMsg struct {
		path string
		err  error
	}
)

// beginExport freezes the document. Capture starts once View has drawn the
// frozen frame.
func (m *model) beginExport(path string) tea.Cmd {
	f, err := m.editor.BeginExport(m.cfg.Export.Scale)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	m.exportPath = path
	m.exportFormat = m.editor.Canvas().Settings().Format
	seq := f.Seq
	return func() tea.Msg { return frameCommittedMsg{seq: seq} }
}

func (m *model) frameCommitted(msg frameCommittedMsg) tea.Cmd {
	if m.presented.seq != msg.seq {
		if msg.attempt >= maxFrameWaits {
			m.editor.AbortExport()
			m.errorMessage = "Export failed: frame never drawn"
			return nil
		}
		next := frameCommittedMsg{seq: msg.seq, attempt: msg.attempt + 1}
		return tea.Tick(frameRetry, func(time.Time) tea.Msg { return next })
	}
	if err := m.editor.CommitFrame(msg.seq); err != nil {
		m.editor.AbortExport()
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	f, err := m.editor.StartCapture()
	if err != nil {
		m.editor.AbortExport()
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	return captureCmd(m.capturer, f, m.cfg.Export.ChromeTimeout)
}

func captureCmd(c Capturer, f Frame, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := c.Capture(ctx, f)
		return captureDoneMsg{capture: res, err: err}
	}
}

func writePDFCmd(path string, c Capture, format PageFormat) tea.Cmd {
	return func() tea.Msg {
		return exportWrittenMsg{path: path, err: writePDFFile(path, c, format)}
	}
}

func (m *model) captureDone(msg captureDoneMsg) tea.Cmd {
	c, err := m.editor.FinishExport(msg.capture, msg.err)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		return nil
	}
	return writePDFCmd(m.exportPath, c, m.exportFormat)
}

func (m *model) exportWritten(msg exportWrittenMsg) {
	if msg.err != nil {
		m.logger.Error("export write failed", slog.String("path", msg.path), slog.String("error", msg.err.Error()))
		m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
		return
	}
	m.logger.Info("export written", slog.String("path", msg.path))
	m.successMessage = "Exported " + msg.path
}
