package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// kindKeys maps the add-element keys to kinds.
var kindKeys = map[string]Kind{
	"t": KindText,
	"b": KindButton,
	"r": KindBox,
	"c": KindCircle,
	"i": KindImage,
	"m": KindInput,
}

var reorderKeys = map[string]Direction{
	"]": Forward,
	"[": Backward,
	"}": ToFront,
	"{": ToBack,
}

// handleNormalKey runs the normal-mode keyboard surface.
func (m *model) handleNormalKey(key string) tea.Cmd {
	if kind, ok := kindKeys[key]; ok {
		_, r := m.editor.AddElement(kind)
		m.report("add "+string(kind), r)
		return nil
	}
	if dir, ok := reorderKeys[key]; ok {
		m.report("reorder", m.editor.Reorder(m.editor.Canvas().SelectedID(), dir))
		return nil
	}
	if dx, dy, ok := m.nudgeFor(key); ok {
		m.report("nudge", m.editor.Nudge(dx, dy))
		return nil
	}

	switch key {
	case "delete", "backspace":
		m.report("delete", m.editor.DeleteSelected())
	case "ctrl+z", "u":
		m.report("undo", m.editor.Undo())
	case "ctrl+y", "ctrl+shift+z", "U":
		m.report("redo", m.editor.Redo())
	case "D":
		_, r := m.editor.Duplicate(m.editor.Canvas().SelectedID())
		m.report("duplicate", r)
	case "L":
		m.report("lock", m.editor.ToggleLock(m.editor.Canvas().SelectedID()))
	case "tab":
		m.editor.SelectNext()
	case "esc":
		m.editor.Select("")
	case "+", "=":
		m.editor.Viewport().ZoomIn()
	case "-":
		m.editor.Viewport().ZoomOut()
	case "0":
		m.editor.Viewport().ResetZoom()
	case "g":
		m.editor.Viewport().ToggleGrid()
	case "e":
		if _, ok := m.editor.Canvas().Selected(); !ok {
			m.errorMessage = "Nothing selected"
			return nil
		}
		m.mode = ModeProperty
		m.input = ""
	case "y":
		m.copySelected()
	case "p":
		m.pasteText()
	case "n":
		return m.confirmOr(ConfirmNewDocument, m.dirty(), func(m *model) tea.Cmd {
			m.editor.NewDocument()
			m.markSaved("")
			return nil
		})
	case "s":
		m.startFileInput(FileOpSave, m.filename)
	case "o":
		m.startFileInput(FileOpOpen, "")
	case "E":
		if m.editor.State() == StateExporting {
			m.errorMessage = "Exporting…"
			return nil
		}
		m.startFileInput(FileOpExport, m.cfg.Export.Output)
	case "?":
		m.help = true
		m.helpScroll = 0
	case "q", "ctrl+c":
		return m.confirmOr(ConfirmQuit, m.dirty(), func(*model) tea.Cmd { return tea.Quit })
	}
	return nil
}

// nudgeFor maps arrow keys to a document-space delta.
func (m *model) nudgeFor(key string) (int, int, bool) {
	step := m.cfg.Editor.Nudge
	if strings.HasPrefix(key, "shift+") {
		step = m.cfg.Editor.NudgeFast
		key = strings.TrimPrefix(key, "shift+")
	}
	switch key {
	case "left":
		return -step, 0, true
	case "right":
		return step, 0, true
	case "up":
		return 0, -step, true
	case "down":
		return 0, step, true
	}
	return 0, 0, false
}

func (m *model) copySelected() {
	el, ok := m.editor.Canvas().Selected()
	if !ok {
		m.errorMessage = "Nothing selected"
		return
	}
	if err := writeClipboardText(el.Content); err != nil {
		m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.successMessage = "Copied"
}

// pasteText sets the selected element's content from the clipboard, or adds
// a text element holding it when nothing is selected.
func (m *model) pasteText() {
	raw, err := readClipboardText()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
		return
	}
	text := pastedContent(raw)
	id := m.editor.Canvas().SelectedID()
	if id == "" {
		var r Result
		id, r = m.editor.AddElement(KindText)
		if r != Applied {
			m.report("paste", r)
			return
		}
	}
	m.report("paste", m.editor.SetContent(id, text))
}

// handleMouse maps pointer events onto gestures. Screen cells are converted
// to screen pixels with the configured cell size; the gesture divides by zoom.
func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.editor.Viewport().ZoomIn()
		return
	case tea.MouseWheelDown:
		m.editor.Viewport().ZoomOut()
		return
	case tea.MouseRelease:
		if m.gesture != nil {
			m.report(m.gesture.Kind().String(), m.gesture.End())
			m.gesture = nil
		}
		return
	case tea.MouseMotion:
		m.dragTo(msg.X, msg.Y)
		return
	case tea.MouseLeft:
		if m.gesture != nil {
			m.dragTo(msg.X, msg.Y)
			return
		}
	default:
		return
	}

	id, h, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		m.editor.Select("")
		return
	}
	var g *Gesture
	var r Result
	if msg.X == h.screen.X+h.screen.W-1 && msg.Y == h.screen.Y+h.screen.H-1 {
		g, r = m.editor.BeginResize(id)
	} else {
		g, r = m.editor.BeginDrag(id)
	}
	if r != Applied {
		if r == Locked {
			m.editor.Select(id)
		}
		m.report("gesture", r)
		return
	}
	m.gesture = g
	m.mouseX, m.mouseY = msg.X, msg.Y
}

func (m *model) dragTo(x, y int) {
	if m.gesture == nil {
		return
	}
	dx := (x - m.mouseX) * m.cfg.Editor.CellWidth
	dy := (y - m.mouseY) * m.cfg.Editor.CellHeight
	m.mouseX, m.mouseY = x, y
	if dx != 0 || dy != 0 {
		m.gesture.Update(dx, dy)
	}
}

// hitTest returns the topmost drawn element under a screen cell.
func (m *model) hitTest(x, y int) (string, *nodeHandle, bool) {
	order := m.editor.Canvas().RenderOrder()
	for i := len(order) - 1; i >= 0; i-- {
		h, ok := m.editor.handles.lookup(order[i].ID)
		if ok && h.drawn && h.screen.Contains(x, y) {
			return order[i].ID, h, true
		}
	}
	return "", nil, false
}

// propertyCommand is one parsed line of the property prompt. Exactly one of
// the fields is set.
type propertyCommand struct {
	patch    *Patch
	settings *SettingsPatch
}

// parsePropertyCommand reads "<name> <value>" lines such as "width 120",
// "opacity 0.5", "fill #ff0000" or "text Hello". Numbers must parse; color
// and range checks are left to the editor.
func parsePropertyCommand(input string) (propertyCommand, error) {
	input = strings.TrimSpace(input)
	name, value, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return propertyCommand{}, fmt.Errorf("%w: empty command", ErrInvalid)
	}

	number := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: %s needs a whole number, got %q", ErrInvalid, name, value)
		}
		return n, nil
	}
	element := func(p Patch) (propertyCommand, error) { return propertyCommand{patch: &p}, nil }
	style := func(sp StylePatch) (propertyCommand, error) { return element(Patch{Style: &sp}) }

	switch name {
	case "x", "y", "width", "w", "height", "h":
		n, err := number()
		if err != nil {
			return propertyCommand{}, err
		}
		switch name {
		case "x":
			return element(Patch{X: &n})
		case "y":
			return element(Patch{Y: &n})
		case "width", "w":
			return element(Patch{Width: &n})
		default:
			return element(Patch{Height: &n})
		}
	case "text", "content":
		return element(Patch{Content: &value})
	case "fill":
		return style(StylePatch{Fill: &value})
	case "color", "text-color":
		return style(StylePatch{TextColor: &value})
	case "border-color":
		return style(StylePatch{BorderColor: &value})
	case "font":
		return style(StylePatch{FontFamily: &value})
	case "align":
		a := Align(strings.ToLower(value))
		return style(StylePatch{Align: &a})
	case "radius", "border":
		n, err := number()
		if err != nil {
			return propertyCommand{}, err
		}
		if name == "radius" {
			return style(StylePatch{Radius: &n})
		}
		return style(StylePatch{BorderWidth: &n})
	case "opacity":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return propertyCommand{}, fmt.Errorf("%w: opacity needs a number, got %q", ErrInvalid, value)
		}
		return style(StylePatch{Opacity: &f})
	case "shadow":
		on, err := parseSwitch(value)
		if err != nil {
			return propertyCommand{}, err
		}
		return style(StylePatch{Shadow: &on})
	case "background":
		return propertyCommand{settings: &SettingsPatch{Background: &value}}, nil
	case "page", "format":
		f := PageFormat(strings.ToLower(value))
		return propertyCommand{settings: &SettingsPatch{Format: &f}}, nil
	case "canvas":
		fields := strings.Fields(value)
		if len(fields) != 2 {
			return propertyCommand{}, fmt.Errorf("%w: canvas needs a width and a height", ErrInvalid)
		}
		w, errW := strconv.Atoi(fields[0])
		h, errH := strconv.Atoi(fields[1])
		if errW != nil || errH != nil {
			return propertyCommand{}, fmt.Errorf("%w: canvas size must be whole numbers", ErrInvalid)
		}
		return propertyCommand{settings: &SettingsPatch{Width: &w, Height: &h}}, nil
	}
	return propertyCommand{}, fmt.Errorf("%w: unknown property %q", ErrInvalid, name)
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", ErrInvalid, value)
}

// applyProperty runs a parsed property command against the selection or the
// document settings.
func (m *model) applyProperty(input string) {
	cmd, err := parsePropertyCommand(input)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if cmd.settings != nil {
		m.report("settings", m.editor.SetSettings(*cmd.settings))
		return
	}
	m.report("property", m.editor.Update(m.editor.Canvas().SelectedID(), *cmd.patch))
}
