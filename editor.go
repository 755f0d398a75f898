package main

import (
	"log/slog"
	"slices"
)

// EditorState is the mode controller state.
type EditorState int

const (
	StateLive EditorState = iota
	StateExporting
)

func (s EditorState) String() string {
	if s == StateExporting {
		return "exporting"
	}
	return "live"
}

// Editor is the command layer: every change to the canvas goes through it.
// It checks existence, locks and the export gate, applies the geometry
// rules, writes the store and decides when history gets a checkpoint.
type Editor struct {
	canvas   *Canvas
	history  *History
	viewport *Viewport
	handles  *handleTable
	cfg      EditorConfig
	logger   *slog.Logger

	state   EditorState
	gesture *Gesture
	export  *exportSession
	seq     int
}

func NewEditor(settings Settings, viewport *Viewport, cfg EditorConfig, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = discardLogger()
	}
	canvas := NewCanvas(settings)
	return &Editor{
		canvas:   canvas,
		history:  NewHistory(canvas.Snapshot(), cfg.HistoryLimit),
		viewport: viewport,
		handles:  newHandleTable(),
		cfg:      cfg,
		logger:   logger,
	}
}

func (e *Editor) Canvas() *Canvas       { return e.canvas }
func (e *Editor) History() *History     { return e.history }
func (e *Editor) Viewport() *Viewport   { return e.viewport }
func (e *Editor) State() EditorState    { return e.state }
func (e *Editor) Document() Document    { return e.canvas.Snapshot() }
func (e *Editor) InGesture() bool       { return e.gesture != nil }
func (e *Editor) Handle(id string) *nodeHandle {
	return e.handles.handle(id)
}

// gate rejects commands while an export is pending or a gesture owns the
// document.
func (e *Editor) gate() Result {
	if e.state != StateLive || e.gesture != nil {
		return Busy
	}
	return Applied
}

func (e *Editor) minSize() int {
	return max(e.cfg.MinSize, minElementSize)
}

func (e *Editor) reject(action, id string, r Result) Result {
	e.logger.Debug("command rejected",
		slog.String("action", action),
		slog.String("id", id),
		slog.String("result", r.String()))
	return r
}

// commit checkpoints the canvas if it differs from before.
func (e *Editor) commit(action, id string, before Document) Result {
	after := e.canvas.Snapshot()
	if documentsEqual(before, after) {
		return Unchanged
	}
	e.history.Checkpoint(after)
	e.handles.prune(e.canvas.IDs())
	e.logger.Debug("command applied",
		slog.String("action", action),
		slog.String("id", id),
		slog.Int("history", e.history.Len()))
	return Applied
}

func documentsEqual(a, b Document) bool {
	return a.Selected == b.Selected && a.Settings == b.Settings && slices.Equal(a.Elements, b.Elements)
}

func (e *Editor) AddElement(kind Kind) (string, Result) {
	if r := e.gate(); r != Applied {
		return "", e.reject("add", "", r)
	}
	if !kind.Valid() {
		return "", e.reject("add", "", Invalid)
	}
	before := e.canvas.Snapshot()
	id := e.canvas.addElement(kind)
	e.canvas.selectElement(id)
	return id, e.commit("add", id, before)
}

// Update applies a partial change. Sizes are clamped to the floor, never
// rejected; an invalid style rejects the whole patch.
func (e *Editor) Update(id string, p Patch) Result {
	if r := e.gate(); r != Applied {
		return e.reject("update", id, r)
	}
	el, ok := e.canvas.Element(id)
	if !ok {
		return e.reject("update", id, NotFound)
	}
	if el.Locked && !p.onlyLock() {
		return e.reject("update", id, Locked)
	}
	if p.empty() {
		return Unchanged
	}
	if p.Style != nil {
		if err := p.Style.Validate(); err != nil {
			e.logger.Debug("style rejected", slog.String("id", id), slog.String("error", err.Error()))
			return e.reject("update", id, Invalid)
		}
	}
	p = e.normalize(el, p)

	before := e.canvas.Snapshot()
	if !e.canvas.updateElement(id, p) {
		return e.reject("update", id, NotFound)
	}
	return e.commit("update", id, before)
}

// normalize enforces the size floor and, in bounded mode, keeps a
// repositioned element inside the canvas.
func (e *Editor) normalize(el Element, p Patch) Patch {
	w, h := el.Width, el.Height
	if p.Width != nil {
		w = *p.Width
	}
	if p.Height != nil {
		h = *p.Height
	}
	w, h = ClampSize(w, h, e.minSize())
	if p.Width != nil {
		p.Width = &w
	}
	if p.Height != nil {
		p.Height = &h
	}

	if e.viewport.Bounded && (p.X != nil || p.Y != nil) {
		x, y := el.X, el.Y
		if p.X != nil {
			x = *p.X
		}
		if p.Y != nil {
			y = *p.Y
		}
		s := e.canvas.Settings()
		x, y = ClampToParent(x, y, w, h, s.Width, s.Height)
		p.X, p.Y = &x, &y
	}
	return p
}

func (e *Editor) Move(id string, x, y int) Result {
	return e.Update(id, Patch{X: &x, Y: &y})
}

func (e *Editor) Resize(id string, w, h int) Result {
	return e.Update(id, Patch{Width: &w, Height: &h})
}

func (e *Editor) SetContent(id, content string) Result {
	return e.Update(id, Patch{Content: &content})
}

func (e *Editor) Restyle(id string, sp StylePatch) Result {
	return e.Update(id, Patch{Style: &sp})
}

func (e *Editor) Delete(id string) Result {
	if r := e.gate(); r != Applied {
		return e.reject("delete", id, r)
	}
	el, ok := e.canvas.Element(id)
	if !ok {
		return e.reject("delete", id, NotFound)
	}
	if el.Locked {
		return e.reject("delete", id, Locked)
	}
	before := e.canvas.Snapshot()
	e.canvas.deleteElement(id)
	return e.commit("delete", id, before)
}

func (e *Editor) DeleteSelected() Result {
	return e.Delete(e.canvas.SelectedID())
}

// Duplicate copies an element, offset so the copy is visibly distinct, and
// selects the copy.
func (e *Editor) Duplicate(id string) (string, Result) {
	if r := e.gate(); r != Applied {
		return "", e.reject("duplicate", id, r)
	}
	if _, ok := e.canvas.Element(id); !ok {
		return "", e.reject("duplicate", id, NotFound)
	}
	before := e.canvas.Snapshot()
	off := e.cfg.DuplicateOffset
	dupID, _ := e.canvas.duplicateElement(id, off, off)
	return dupID, e.commit("duplicate", dupID, before)
}

func (e *Editor) Reorder(id string, dir Direction) Result {
	if r := e.gate(); r != Applied {
		return e.reject("reorder", id, r)
	}
	if _, ok := e.canvas.Element(id); !ok {
		return e.reject("reorder", id, NotFound)
	}
	before := e.canvas.Snapshot()
	e.canvas.reorder(id, dir)
	return e.commit("reorder:"+dir.String(), id, before)
}

// SetLock always succeeds on an existing element, locked or not.
func (e *Editor) SetLock(id string, locked bool) Result {
	if r := e.gate(); r != Applied {
		return e.reject("lock", id, r)
	}
	if _, ok := e.canvas.Element(id); !ok {
		return e.reject("lock", id, NotFound)
	}
	before := e.canvas.Snapshot()
	e.canvas.setLock(id, locked)
	return e.commit("lock", id, before)
}

func (e *Editor) ToggleLock(id string) Result {
	el, ok := e.canvas.Element(id)
	if !ok {
		return e.SetLock(id, true)
	}
	return e.SetLock(id, !el.Locked)
}

// Select changes the selection without a checkpoint. An empty id clears it.
func (e *Editor) Select(id string) Result {
	if r := e.gate(); r != Applied {
		return r
	}
	if id == e.canvas.SelectedID() {
		return Unchanged
	}
	if !e.canvas.selectElement(id) {
		return NotFound
	}
	return Applied
}

// SelectNext cycles the selection through the elements front to back.
func (e *Editor) SelectNext() Result {
	order := e.canvas.RenderOrder()
	if len(order) == 0 {
		return NotFound
	}
	cur := e.canvas.SelectedID()
	next := order[len(order)-1].ID
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].ID == cur {
			if i > 0 {
				next = order[i-1].ID
			}
			break
		}
	}
	return e.Select(next)
}

// Nudge moves the selected element by a document-space delta.
func (e *Editor) Nudge(dx, dy int) Result {
	el, ok := e.canvas.Selected()
	if !ok {
		if r := e.gate(); r != Applied {
			return r
		}
		return NotFound
	}
	return e.Move(el.ID, el.X+dx, el.Y+dy)
}

func (e *Editor) SetSettings(sp SettingsPatch) Result {
	if r := e.gate(); r != Applied {
		return e.reject("settings", "", r)
	}
	next := sp.applyTo(e.canvas.Settings())
	if err := next.Validate(); err != nil {
		e.logger.Debug("settings rejected", slog.String("error", err.Error()))
		return e.reject("settings", "", Invalid)
	}
	before := e.canvas.Snapshot()
	e.canvas.setSettings(next)
	return e.commit("settings", "", before)
}

func (e *Editor) Undo() Result {
	if r := e.gate(); r != Applied {
		return e.reject("undo", "", r)
	}
	doc, ok := e.history.Undo()
	if !ok {
		return Unchanged
	}
	e.install(doc)
	return Applied
}

func (e *Editor) Redo() Result {
	if r := e.gate(); r != Applied {
		return e.reject("redo", "", r)
	}
	doc, ok := e.history.Redo()
	if !ok {
		return Unchanged
	}
	e.install(doc)
	return Applied
}

func (e *Editor) install(doc Document) {
	e.canvas.install(doc)
	e.handles.prune(e.canvas.IDs())
}

// Load replaces the document outright. History restarts with the loaded
// document as its only entry. doc must already be validated.
func (e *Editor) Load(doc Document) Result {
	if r := e.gate(); r != Applied {
		return e.reject("load", "", r)
	}
	e.install(doc)
	e.history.Reset(e.canvas.Snapshot())
	e.logger.Info("document loaded", slog.Int("elements", e.canvas.Len()))
	return Applied
}

func (e *Editor) NewDocument() Result {
	return e.Load(NewDocument(e.canvas.Settings()))
}
