package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const documentExt = ".json"

// docChangedMsg is sent by the file watcher.
type docChangedMsg struct {
	path string
}

type model struct {
	width      int
	height     int
	cfg        *Config
	logger     *slog.Logger
	editor     *Editor
	capturer   Capturer
	mode       Mode
	help       bool
	helpScroll int

	filename          string
	input             string
	fileOp            FileOperation
	fileList          []string
	selectedFileIndex int
	fromStartup       bool

	confirmAction ConfirmAction
	pending       func(*model) tea.Cmd

	saved   Document
	gesture *Gesture
	mouseX  int
	mouseY  int

	presented    *presentation
	exportPath   string
	exportFormat PageFormat

	errorMessage   string
	successMessage string
}

func newModel(cfg *Config, logger *slog.Logger, capturer Capturer) model {
	viewport := NewViewport(cfg.Editor)
	editor := NewEditor(cfg.Canvas.Settings(), viewport, cfg.Editor, logger)
	return model{
		cfg:               cfg,
		logger:            logger,
		editor:            editor,
		capturer:          capturer,
		mode:              ModeStartup,
		selectedFileIndex: -1,
		saved:             editor.Document(),
		presented:         &presentation{seq: -1},
	}
}

// open installs a loaded document and remembers where it came from.
func (m *model) open(doc Document, path string) Result {
	r := m.editor.Load(doc)
	if r == Applied {
		m.markSaved(path)
		m.mode = ModeNormal
	}
	return r
}

func (m *model) markSaved(path string) {
	m.saved = m.editor.Document()
	m.filename = path
}

func (m *model) dirty() bool {
	return !sameContent(m.saved, m.editor.Document())
}

// sameContent compares documents ignoring the selection.
func sameContent(a, b Document) bool {
	a.Selected, b.Selected = "", ""
	return documentsEqual(a, b)
}

// report turns a command result into a status message.
func (m *model) report(action string, r Result) {
	switch r {
	case Applied, Unchanged:
		return
	case NotFound:
		m.errorMessage = "Nothing selected"
	case Busy:
		m.errorMessage = "Exporting…"
	default:
		m.errorMessage = fmt.Sprintf("%s: %v", action, r.Err())
	}
}

// confirmOr asks before running then when needed and confirmations are on.
// then receives the model current at the time it runs.
func (m *model) confirmOr(action ConfirmAction, needed bool, then func(*model) tea.Cmd) tea.Cmd {
	if !needed || !m.cfg.Confirmations {
		return then(m)
	}
	m.mode = ModeConfirm
	m.confirmAction = action
	m.pending = then
	return nil
}

func (m *model) startFileInput(op FileOperation, initial string) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.input = initial
	m.errorMessage = ""
	if op == FileOpOpen {
		m.scanDocumentFiles()
	}
}

func (m *model) scanDocumentFiles() {
	m.fileList = nil
	m.selectedFileIndex = -1
	dir := m.cfg.SaveDirectory
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), documentExt) {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)
	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.input = m.fileList[0]
	}
}

func withExt(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + ext
	}
	return path
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help && m.editor.State() == StateLive {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg.String())
		return m, cmd

	case frameCommittedMsg:
		return m, m.frameCommitted(msg)

	case captureDoneMsg:
		return m, m.captureDone(msg)

	case exportWrittenMsg:
		m.exportWritten(msg)
		return m, nil

	case docChangedMsg:
		return m, m.reload(msg)
	}
	return m, nil
}

func (m *model) handleKey(key string) tea.Cmd {
	if m.help {
		m.handleHelpKey(key)
		return nil
	}
	switch m.mode {
	case ModeStartup:
		switch key {
		case "n":
			m.mode = ModeNormal
		case "o":
			m.fromStartup = true
			m.startFileInput(FileOpOpen, "")
		case "q", "ctrl+c":
			return tea.Quit
		}
		return nil

	case ModeProperty:
		switch key {
		case "enter":
			m.applyProperty(m.input)
			m.mode = ModeNormal
			m.input = ""
		case "esc":
			m.mode = ModeNormal
			m.input = ""
		default:
			m.input = editLine(m.input, key)
		}
		return nil

	case ModeFileInput:
		return m.handleFileKey(key)

	case ModeConfirm:
		switch key {
		case "y", "Y":
			m.mode = ModeNormal
			then := m.pending
			m.pending = nil
			if then != nil {
				return then(m)
			}
		case "n", "N", "esc":
			m.mode = ModeNormal
			m.pending = nil
		}
		return nil
	}

	m.errorMessage, m.successMessage = "", ""
	if m.editor.State() == StateExporting && key != "ctrl+c" {
		m.errorMessage = "Exporting…"
		return nil
	}
	return m.handleNormalKey(key)
}

// editLine applies a key to a single-line text input.
func editLine(s, key string) string {
	switch key {
	case "backspace":
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1])
		}
		return s
	case "space":
		return s + " "
	}
	if r := []rune(key); len(r) == 1 {
		return s + key
	}
	return s
}

func (m *model) handleFileKey(key string) tea.Cmd {
	switch key {
	case "esc":
		if m.fromStartup {
			m.mode = ModeStartup
		} else {
			m.mode = ModeNormal
		}
		m.fromStartup = false
		m.errorMessage = ""
		return nil
	case "up":
		if m.fileOp == FileOpOpen && m.selectedFileIndex > 0 {
			m.selectedFileIndex--
			m.input = m.fileList[m.selectedFileIndex]
		}
		return nil
	case "down":
		if m.fileOp == FileOpOpen && m.selectedFileIndex < len(m.fileList)-1 {
			m.selectedFileIndex++
			m.input = m.fileList[m.selectedFileIndex]
		}
		return nil
	case "enter":
		name := strings.TrimSpace(m.input)
		if name == "" {
			m.errorMessage = "Filename cannot be empty"
			return nil
		}
		return m.runFileOp(name)
	}
	m.input = editLine(m.input, key)
	return nil
}

func (m *model) runFileOp(name string) tea.Cmd {
	switch m.fileOp {
	case FileOpSave:
		path := m.cfg.GetSavePath(withExt(name, documentExt))
		m.mode = ModeNormal
		_, statErr := os.Stat(path)
		overwrite := statErr == nil && path != m.filename
		return m.confirmOr(ConfirmOverwriteFile, overwrite, func(m *model) tea.Cmd {
			m.save(path)
			return nil
		})

	case FileOpOpen:
		path := m.cfg.GetSavePath(withExt(name, documentExt))
		doc, err := LoadDocument(path)
		if err != nil {
			m.logger.Warn("open failed", slog.String("path", path), slog.String("error", err.Error()))
			m.errorMessage = err.Error()
			return nil
		}
		m.mode = ModeNormal
		m.fromStartup = false
		return m.confirmOr(ConfirmNewDocument, m.dirty(), func(m *model) tea.Cmd {
			m.report("open", m.open(doc, path))
			m.successMessage = "Opened " + path
			return nil
		})

	case FileOpExport:
		m.mode = ModeNormal
		return m.beginExport(m.cfg.GetSavePath(withExt(name, ".pdf")))
	}
	return nil
}

func (m *model) save(path string) {
	if err := SaveDocument(path, m.editor.Document()); err != nil {
		m.logger.Error("save failed", slog.String("path", path), slog.String("error", err.Error()))
		m.errorMessage = err.Error()
		return
	}
	m.logger.Info("document saved", slog.String("path", path))
	m.markSaved(path)
	m.successMessage = "Saved " + path
}

// reload installs a document changed on disk. It waits out exports and
// gestures, and skips files that match what is already open.
func (m *model) reload(msg docChangedMsg) tea.Cmd {
	if m.editor.State() != StateLive || m.gesture != nil {
		return tea.Tick(watchDebounce, func(time.Time) tea.Msg { return msg })
	}
	doc, err := LoadDocument(msg.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.errorMessage = fmt.Sprintf("Reload failed: %v", err)
		}
		m.logger.Warn("reload failed", slog.String("path", msg.path), slog.String("error", err.Error()))
		return nil
	}
	if sameContent(doc, m.editor.Document()) {
		return nil
	}
	m.report("reload", m.open(doc, m.filename))
	m.successMessage = "Reloaded from disk"
	return nil
}

func (m *model) handleHelpKey(key string) {
	switch key {
	case "j", "down":
		visible := max(m.height-1, 1)
		if m.helpScroll < max(len(helpLines)-visible, 0) {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}
	if m.mode == ModeFileInput && m.fileOp == FileOpOpen {
		return m.openView()
	}

	width := max(m.width, 1)
	height := max(m.height-1, 1)

	var s scene
	if f, ok := m.editor.Frame(); ok {
		s = exportScene(f)
		m.presented.seq = f.Seq
	} else {
		s = liveScene(m.editor.Document(), m.editor.Viewport())
	}
	lines, rects := renderScene(s, width, height, m.cfg.Editor.CellWidth, m.cfg.Editor.CellHeight)
	for id, r := range rects {
		h := m.editor.Handle(id)
		h.screen = r
		h.drawn = true
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusLine(width))
	return b.String()
}

func (m model) statusLine(width int) string {
	var status string
	switch m.mode {
	case ModeProperty:
		status = fmt.Sprintf("Mode: PROPERTY | %s█ | e.g. width 120, opacity 0.5, fill #ff0000, text Hello | Enter=apply, Esc=cancel", m.input)
	case ModeFileInput:
		op := "Save"
		if m.fileOp == FileOpExport {
			op = "Export PDF"
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", op, m.input)
	case ModeConfirm:
		status = "Mode: CONFIRM | " + m.confirmMessage()
	default:
		if m.editor.State() == StateExporting {
			status = "Mode: EXPORT | Exporting…"
			break
		}
		v := m.editor.Viewport()
		grid := "off"
		if v.Grid {
			grid = fmt.Sprintf("%dpx", v.GridSize)
		}
		status = fmt.Sprintf("Mode: NORMAL | Zoom %d%% | Grid %s", v.ZoomPercent(), grid)
		if el, ok := m.editor.Canvas().Selected(); ok {
			status += fmt.Sprintf(" | %s (%d,%d %d×%d) z%d", el.Kind, el.X, el.Y, el.Width, el.Height, el.Z)
			if el.Locked {
				status += " locked"
			}
		}
		h := m.editor.History()
		status += fmt.Sprintf(" | History %d/%d", h.Cursor()+1, h.Len())
		if m.filename != "" {
			name := filepath.Base(m.filename)
			if m.dirty() {
				name += "*"
			}
			status += " | " + name
		}
	}

	line := statusStyle.Width(width).Render(status)
	switch {
	case m.errorMessage != "":
		line = statusStyle.Render(status+" | ") + errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		line = statusStyle.Width(width).Render(status + " | " + m.successMessage)
	case m.mode == ModeNormal:
		line = statusStyle.Render(status+" | ") + hintStyle.Render("? for help | q to quit")
	}
	return line
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit with unsaved changes? (y/n)"
	case ConfirmNewDocument:
		return "Discard unsaved changes? (y/n)"
	case ConfirmOverwriteFile:
		return "File already exists. Overwrite? (y/n)"
	}
	return "(y/n)"
}

func (m model) startupView() string {
	lines := []string{
		"",
		"  easel",
		"  layout editor",
		"",
		"  'n' New layout",
		"  'o' Open existing layout",
		"  'q' Quit",
	}
	return strings.Join(lines, "\n")
}

func (m model) openView() string {
	width := max(m.width, 1)
	var b strings.Builder
	b.WriteString("Select a saved layout:\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	if len(m.fileList) == 0 {
		b.WriteString("(No " + documentExt + " files found)\n")
	} else {
		maxFiles := max(m.height-5, 1)
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		end := min(start+maxFiles, len(m.fileList))
		for i := start; i < end; i++ {
			if i == m.selectedFileIndex {
				b.WriteString("> " + m.fileList[i] + " <\n")
			} else {
				b.WriteString("  " + m.fileList[i] + "\n")
			}
		}
	}
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\nFilename: " + m.input + "█\n")
	status := "Mode: FILE | ↑/↓=navigate list, Type=enter name, Enter=open, Esc=cancel"
	if m.errorMessage != "" {
		b.WriteString(statusStyle.Render(status+" | ") + errorStyle.Render(m.errorMessage))
	} else {
		b.WriteString(statusStyle.Render(status))
	}
	return b.String()
}

var helpLines = []string{
	"easel help",
	"==========",
	"",
	"Elements:",
	"---------",
	"  t b r c i m      Add text, button, box, circle, image, input mock",
	"  D                Duplicate selected element",
	"  Delete/Backspace Delete selected element",
	"  L                Lock/unlock selected element",
	"  e                Edit a property of the selection",
	"                   width 120, height 40, x 10, y 10, text Hello,",
	"                   fill #ff0000, color #222, opacity 0.5, radius 6,",
	"                   border 1, border-color #888, shadow on, font mono,",
	"                   align center, background #fff, page letter, canvas 800 600",
	"  y / p            Copy content / paste text",
	"",
	"Arrange:",
	"--------",
	"  ←/↑/→/↓          Nudge selection 1px",
	"  Shift+arrows     Nudge selection 10px",
	"  ] / [            Bring forward / send backward",
	"  } / {            Bring to front / send to back",
	"  Tab              Select next element",
	"  Esc              Clear selection",
	"",
	"Mouse:",
	"------",
	"  Drag element     Move it",
	"  Drag ◢ corner    Resize it",
	"  Click empty      Clear selection",
	"  Wheel            Zoom",
	"",
	"View:",
	"-----",
	"  + / - / 0        Zoom in / out / reset",
	"  g                Toggle snap grid",
	"",
	"File:",
	"-----",
	"  s                Save layout",
	"  o                Open layout",
	"  E                Export PDF",
	"  n                New layout",
	"",
	"General:",
	"--------",
	"  Ctrl+Z / u       Undo",
	"  Ctrl+Y / U       Redo",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	result := strings.Join(helpLines[start:end], "\n")
	return result + "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
}
