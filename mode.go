package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// FrameElement is an element as the export representation expresses it:
// absolute document pixels, nothing interactive.
type FrameElement struct {
	ID      string
	Kind    Kind
	X, Y    int
	Width   int
	Height  int
	Content string
	Style   Style
}

// Frame is the frozen, transform-free layout handed to a capturer.
// Elements are back to front.
type Frame struct {
	Seq        int
	Width      int
	Height     int
	Background string
	Scale      float64
	Elements   []FrameElement
}

func buildFrame(seq int, doc Document, scale float64) Frame {
	c := &Canvas{doc: doc}
	order := c.RenderOrder()
	f := Frame{
		Seq:        seq,
		Width:      doc.Settings.Width,
		Height:     doc.Settings.Height,
		Background: doc.Settings.Background,
		Scale:      scale,
		Elements:   make([]FrameElement, 0, len(order)),
	}
	for _, el := range order {
		f.Elements = append(f.Elements, FrameElement{
			ID:      el.ID,
			Kind:    el.Kind,
			X:       el.X,
			Y:       el.Y,
			Width:   el.Width,
			Height:  el.Height,
			Content: el.Content,
			Style:   el.Style,
		})
	}
	return f
}

// Capture is what a capturer hands back: pixel dimensions and the image.
type Capture struct {
	Width  int
	Height int
	Image  image.Image
}

// Presenter commits a frame to whatever visual tree the capturer will read.
// It returns once the frame is laid out.
type Presenter interface {
	Present(ctx context.Context, f Frame) error
}

type PresenterFunc func(ctx context.Context, f Frame) error

func (fn PresenterFunc) Present(ctx context.Context, f Frame) error { return fn(ctx, f) }

// immediatePresenter is enough for capturers that draw the Frame value
// directly.
var immediatePresenter = PresenterFunc(func(ctx context.Context, _ Frame) error { return ctx.Err() })

type Capturer interface {
	Capture(ctx context.Context, f Frame) (Capture, error)
}

type exportPhase int

const (
	phaseFrozen exportPhase = iota
	phaseCommitted
	phaseCapturing
)

type exportSession struct {
	frame    Frame
	phase    exportPhase
	selected string
	zoom     float64
}

// BeginExport switches Live to Exporting and returns the frozen frame. The
// frame must be committed with CommitFrame before it may be captured.
func (e *Editor) BeginExport(scale float64) (Frame, error) {
	if e.gate() != Applied {
		return Frame{}, ErrBusy
	}
	if scale <= 0 {
		scale = 1
	}
	e.seq++
	sess := &exportSession{
		selected: e.canvas.doc.Selected,
		zoom:     e.viewport.Zoom,
	}
	e.canvas.doc.Selected = ""
	e.viewport.ResetZoom()
	sess.frame = buildFrame(e.seq, e.canvas.Snapshot(), scale)
	e.export = sess
	e.state = StateExporting
	e.logger.Info("export started",
		slog.Int("seq", e.seq),
		slog.Int("elements", len(sess.frame.Elements)))
	return sess.frame, nil
}

// Frame returns the frame being exported.
func (e *Editor) Frame() (Frame, bool) {
	if e.export == nil {
		return Frame{}, false
	}
	return e.export.frame, true
}

// CommitFrame records that the frame with the given sequence number has
// been rendered.
func (e *Editor) CommitFrame(seq int) error {
	if e.export == nil || e.export.frame.Seq != seq {
		return fmt.Errorf("commit frame %d: %w", seq, ErrFrameNotCommitted)
	}
	if e.export.phase == phaseFrozen {
		e.export.phase = phaseCommitted
	}
	return nil
}

// StartCapture hands out the committed frame for capture. Capturing a frame
// that was never committed could read stale geometry, so it is refused.
func (e *Editor) StartCapture() (Frame, error) {
	if e.export == nil || e.export.phase != phaseCommitted {
		return Frame{}, ErrFrameNotCommitted
	}
	e.export.phase = phaseCapturing
	return e.export.frame, nil
}

// FinishExport takes the capturer's outcome and returns to Live whatever it
// was. A zero-sized capture counts as a failure.
func (e *Editor) FinishExport(c Capture, err error) (Capture, error) {
	seq := e.seq
	e.endExport()
	if err == nil && (c.Image == nil || c.Width <= 0 || c.Height <= 0) {
		err = ErrEmptyCapture
	}
	if err != nil {
		e.logger.Warn("export failed", slog.Int("seq", seq), slog.String("error", err.Error()))
		return Capture{}, fmt.Errorf("capture: %w", err)
	}
	e.logger.Info("export captured",
		slog.Int("seq", seq),
		slog.Int("width", c.Width),
		slog.Int("height", c.Height))
	return c, nil
}

// AbortExport returns to Live without capturing.
func (e *Editor) AbortExport() {
	if e.export != nil {
		e.logger.Warn("export aborted", slog.Int("seq", e.export.frame.Seq))
	}
	e.endExport()
}

func (e *Editor) endExport() {
	if e.export == nil {
		return
	}
	if _, ok := e.canvas.Element(e.export.selected); ok {
		e.canvas.doc.Selected = e.export.selected
	}
	e.viewport.Zoom = e.export.zoom
	e.export = nil
	e.state = StateLive
}

// Capture runs the capturer on the committed frame and returns to Live.
func (e *Editor) Capture(ctx context.Context, c Capturer) (Capture, error) {
	f, err := e.StartCapture()
	if err != nil {
		return Capture{}, err
	}
	res, err := c.Capture(ctx, f)
	return e.FinishExport(res, err)
}

// Export runs the whole sequence: freeze, present, commit, capture.
func (e *Editor) Export(ctx context.Context, scale float64, p Presenter, c Capturer) (Capture, error) {
	f, err := e.BeginExport(scale)
	if err != nil {
		return Capture{}, err
	}
	if err := p.Present(ctx, f); err != nil {
		e.AbortExport()
		return Capture{}, fmt.Errorf("present frame: %w", err)
	}
	if err := e.CommitFrame(f.Seq); err != nil {
		e.AbortExport()
		return Capture{}, err
	}
	return e.Capture(ctx, c)
}
