package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParsePropertyCommand(t *testing.T) {
	cmd, err := parsePropertyCommand("width 120")
	if err != nil || cmd.patch == nil || cmd.patch.Width == nil || *cmd.patch.Width != 120 {
		t.Fatalf("width: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("  Opacity 0.5 ")
	if err != nil || cmd.patch.Style == nil || *cmd.patch.Style.Opacity != 0.5 {
		t.Fatalf("opacity: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("text Hello there")
	if err != nil || *cmd.patch.Content != "Hello there" {
		t.Fatalf("text: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("align CENTER")
	if err != nil || *cmd.patch.Style.Align != AlignCenter {
		t.Fatalf("align: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("shadow on")
	if err != nil || !*cmd.patch.Style.Shadow {
		t.Fatalf("shadow: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("canvas 1024 768")
	if err != nil || cmd.settings == nil || *cmd.settings.Width != 1024 || *cmd.settings.Height != 768 {
		t.Fatalf("canvas: %+v, %v", cmd, err)
	}
	cmd, err = parsePropertyCommand("page Letter")
	if err != nil || *cmd.settings.Format != FormatLetter {
		t.Fatalf("page: %+v, %v", cmd, err)
	}

	for _, bad := range []string{"", "width wide", "opacity lots", "shadow maybe", "canvas 10", "canvas a b", "spin 90"} {
		if _, err := parsePropertyCommand(bad); !errors.Is(err, ErrInvalid) {
			t.Errorf("parsePropertyCommand(%q) err = %v", bad, err)
		}
	}
}

func TestNudgeFor(t *testing.T) {
	m := newTestModel(t, nil)
	cases := []struct {
		key    string
		dx, dy int
	}{
		{"left", -1, 0},
		{"down", 0, 1},
		{"shift+right", 10, 0},
		{"shift+up", 0, -10},
	}
	for _, c := range cases {
		dx, dy, ok := m.nudgeFor(c.key)
		if !ok || dx != c.dx || dy != c.dy {
			t.Errorf("nudgeFor(%q) = %d, %d, %v", c.key, dx, dy, ok)
		}
	}
	if _, _, ok := m.nudgeFor("x"); ok {
		t.Errorf("x treated as an arrow")
	}
}

func TestModel_ElementKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if m.editor.Canvas().Len() != 1 {
		t.Fatalf("b did not add a button")
	}
	el, _ := m.editor.Canvas().Selected()
	if el.Kind != KindButton {
		t.Errorf("added %s", el.Kind)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got, _ := m.editor.Canvas().Selected(); got.X != el.X+1 {
		t.Errorf("right arrow x = %d", got.X)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	if m.editor.Canvas().Len() != 0 {
		t.Fatalf("delete left %d elements", m.editor.Canvas().Len())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if m.editor.Canvas().Len() != 1 {
		t.Errorf("ctrl+z did not restore the element")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("D")})
	if m.editor.Canvas().Len() != 2 {
		t.Errorf("D did not duplicate")
	}
}

func TestModel_PropertyPromptOwnsKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m.handleKey("r")
	id := m.editor.Canvas().SelectedID()

	m.handleKey("e")
	if m.mode != ModeProperty {
		t.Fatalf("mode = %v, want property", m.mode)
	}
	for _, r := range "width 120" {
		m.handleKey(string(r))
	}
	if m.editor.Canvas().Len() != 1 {
		t.Errorf("typing in the prompt ran shortcuts")
	}
	m.handleKey("enter")
	if m.mode != ModeNormal {
		t.Errorf("mode after enter = %v", m.mode)
	}
	if got := mustElement(t, m.editor, id).Width; got != 120 {
		t.Errorf("width = %d, want 120", got)
	}

	m.handleKey("e")
	for _, r := range "fill red" {
		m.handleKey(string(r))
	}
	m.handleKey("enter")
	if m.errorMessage == "" {
		t.Errorf("invalid fill accepted silently")
	}
}

func TestModel_PropertyNeedsSelection(t *testing.T) {
	m := newTestModel(t, nil)
	m.handleKey("e")
	if m.mode != ModeNormal || m.errorMessage != "Nothing selected" {
		t.Errorf("mode=%v error=%q", m.mode, m.errorMessage)
	}
}

func TestModel_QuitConfirmsWhenDirty(t *testing.T) {
	m := newTestModel(t, nil)
	if cmd := m.handleKey("q"); cmd == nil {
		t.Fatalf("clean quit returned no command")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("clean quit did not quit")
	}

	m.handleKey("t")
	if cmd := m.handleKey("q"); cmd != nil || m.mode != ModeConfirm {
		t.Fatalf("dirty quit did not ask")
	}
	m.handleKey("n")
	if m.mode != ModeNormal {
		t.Errorf("mode after declining = %v", m.mode)
	}
	m.handleKey("q")
	if cmd := m.handleKey("y"); cmd == nil {
		t.Errorf("confirmed quit returned no command")
	}
}

func TestModel_MouseDrag(t *testing.T) {
	m := newTestModel(t, nil)
	m.handleKey("b")
	id := m.editor.Canvas().SelectedID()
	m.View()

	h, ok := m.editor.handles.lookup(id)
	if !ok || !h.drawn {
		t.Fatalf("element not drawn")
	}
	n := m.editor.History().Len()
	startX := mustElement(t, m.editor, id).X

	m = press(m, tea.MouseMsg{X: h.screen.X + 1, Y: h.screen.Y, Type: tea.MouseLeft})
	if !m.editor.InGesture() {
		t.Fatalf("press did not start a drag")
	}
	m = press(m, tea.MouseMsg{X: h.screen.X + 3, Y: h.screen.Y, Type: tea.MouseMotion})
	m = press(m, tea.MouseMsg{X: h.screen.X + 3, Y: h.screen.Y, Type: tea.MouseRelease})

	if m.editor.InGesture() {
		t.Errorf("gesture still active after release")
	}
	if got := mustElement(t, m.editor, id).X; got != startX+2*m.cfg.Editor.CellWidth {
		t.Errorf("x = %d, want %d", got, startX+2*m.cfg.Editor.CellWidth)
	}
	if m.editor.History().Len() != n+1 {
		t.Errorf("drag added %d entries", m.editor.History().Len()-n)
	}
}

func TestModel_MouseResizeFromGrip(t *testing.T) {
	m := newTestModel(t, nil)
	m.handleKey("r")
	id := m.editor.Canvas().SelectedID()
	m.View()
	h, _ := m.editor.handles.lookup(id)
	startW := mustElement(t, m.editor, id).Width

	gx, gy := h.screen.X+h.screen.W-1, h.screen.Y+h.screen.H-1
	m = press(m, tea.MouseMsg{X: gx, Y: gy, Type: tea.MouseLeft})
	m = press(m, tea.MouseMsg{X: gx + 1, Y: gy, Type: tea.MouseMotion})
	m = press(m, tea.MouseMsg{X: gx + 1, Y: gy, Type: tea.MouseRelease})

	if got := mustElement(t, m.editor, id).Width; got != startW+m.cfg.Editor.CellWidth {
		t.Errorf("width = %d, want %d", got, startW+m.cfg.Editor.CellWidth)
	}
}
