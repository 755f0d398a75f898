package main

import "log/slog"

type GestureKind int

const (
	GestureDrag GestureKind = iota
	GestureResize
)

func (k GestureKind) String() string {
	if k == GestureResize {
		return "resize"
	}
	return "drag"
}

// Gesture is one pointer interaction, start to stop. Intermediate frames
// write straight to the canvas so the host can show them; history only sees
// the end of the gesture.
type Gesture struct {
	editor *Editor
	kind   GestureKind
	id     string
	start  Element
	before Document
	dx, dy int
	done   bool
}

func (e *Editor) BeginDrag(id string) (*Gesture, Result) {
	return e.beginGesture(GestureDrag, id)
}

func (e *Editor) BeginResize(id string) (*Gesture, Result) {
	return e.beginGesture(GestureResize, id)
}

func (e *Editor) beginGesture(kind GestureKind, id string) (*Gesture, Result) {
	if r := e.gate(); r != Applied {
		return nil, e.reject(kind.String(), id, r)
	}
	el, ok := e.canvas.Element(id)
	if !ok {
		return nil, e.reject(kind.String(), id, NotFound)
	}
	if el.Locked {
		return nil, e.reject(kind.String(), id, Locked)
	}
	e.canvas.selectElement(id)
	g := &Gesture{
		editor: e,
		kind:   kind,
		id:     id,
		start:  el,
		before: e.canvas.Snapshot(),
	}
	e.gesture = g
	return g, Applied
}

func (g *Gesture) ID() string        { return g.id }
func (g *Gesture) Kind() GestureKind { return g.kind }

// Update feeds one frame of pointer movement, in screen pixels. Deltas are
// accumulated so rounding at a fractional zoom never drifts.
func (g *Gesture) Update(dx, dy int) Result {
	if g.done {
		return Busy
	}
	g.dx += dx
	g.dy += dy

	e := g.editor
	zoom := e.viewport.Zoom
	cell := e.viewport.Cell()
	settings := e.canvas.Settings()
	p := Patch{}

	switch g.kind {
	case GestureDrag:
		x := SnapToGrid(g.start.X+ScaleForZoom(g.dx, zoom), cell)
		y := SnapToGrid(g.start.Y+ScaleForZoom(g.dy, zoom), cell)
		if e.viewport.Bounded {
			x, y = ClampToParent(x, y, g.start.Width, g.start.Height, settings.Width, settings.Height)
		}
		p.X, p.Y = &x, &y
	case GestureResize:
		w := SnapToGrid(g.start.Width+ScaleForZoom(g.dx, zoom), cell)
		h := SnapToGrid(g.start.Height+ScaleForZoom(g.dy, zoom), cell)
		if e.viewport.Bounded {
			w = min(w, settings.Width-g.start.X)
			h = min(h, settings.Height-g.start.Y)
		}
		w, h = ClampSize(w, h, max(e.cfg.GestureMinSize, e.minSize()))
		p.Width, p.Height = &w, &h
	}

	if !e.canvas.updateElement(g.id, p) {
		return NotFound
	}
	return Applied
}

// End finishes the gesture with a single checkpoint covering every frame.
func (g *Gesture) End() Result {
	if g.done {
		return Unchanged
	}
	g.done = true
	e := g.editor
	e.gesture = nil
	r := e.commit(g.kind.String(), g.id, g.before)
	e.logger.Debug("gesture ended",
		slog.String("kind", g.kind.String()),
		slog.String("id", g.id),
		slog.String("result", r.String()))
	return r
}

// Cancel puts the element back where the gesture found it.
func (g *Gesture) Cancel() {
	if g.done {
		return
	}
	g.done = true
	e := g.editor
	e.gesture = nil
	e.canvas.install(g.before)
}
