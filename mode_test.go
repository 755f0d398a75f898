package main

import (
	"context"
	"errors"
	"image"
	"testing"
)

type captureFunc func(ctx context.Context, f Frame) (Capture, error)

func (fn captureFunc) Capture(ctx context.Context, f Frame) (Capture, error) { return fn(ctx, f) }

func solidCapture(f Frame) Capture {
	w, h := int(float64(f.Width)*f.Scale), int(float64(f.Height)*f.Scale)
	return Capture{Width: w, Height: h, Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func TestExport_SuccessRestoresLiveState(t *testing.T) {
	e := newTestEditor(t)
	a := mustAdd(t, e, KindBox)
	b := mustAdd(t, e, KindText)
	e.Reorder(b, ToBack)
	e.Select(a)
	e.Viewport().Zoom = 1.5
	before := e.Document()
	n := e.History().Len()

	var seen Frame
	var stateDuring EditorState
	capturer := captureFunc(func(_ context.Context, f Frame) (Capture, error) {
		seen = f
		stateDuring = e.State()
		return solidCapture(f), nil
	})

	c, err := e.Export(context.Background(), 2, immediatePresenter, capturer)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if c.Width != 1600 || c.Height != 1200 {
		t.Errorf("capture = %d×%d, want 1600×1200", c.Width, c.Height)
	}
	if stateDuring != StateExporting {
		t.Errorf("state during capture = %s", stateDuring)
	}
	if len(seen.Elements) != 2 || seen.Elements[0].ID != b || seen.Elements[1].ID != a {
		t.Errorf("frame not back to front: %+v", seen.Elements)
	}

	if e.State() != StateLive {
		t.Errorf("state after export = %s", e.State())
	}
	if e.Canvas().SelectedID() != a || e.Viewport().Zoom != 1.5 {
		t.Errorf("selection %q zoom %v not restored", e.Canvas().SelectedID(), e.Viewport().Zoom)
	}
	if !documentsEqual(before, e.Document()) || e.History().Len() != n {
		t.Errorf("export changed the document or history")
	}
}

func TestExport_FrameHidesAffordances(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e, KindBox)
	e.Viewport().Zoom = 3

	f, err := e.BeginExport(1)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if e.Canvas().SelectedID() != "" {
		t.Errorf("selection visible during export")
	}
	if e.Viewport().Zoom != 1 {
		t.Errorf("zoom during export = %v", e.Viewport().Zoom)
	}
	if f.Width != defaultCanvasW || f.Height != defaultCanvasH || f.Scale != 1 {
		t.Errorf("frame = %d×%d @%v", f.Width, f.Height, f.Scale)
	}
	e.AbortExport()
	if e.Viewport().Zoom != 3 || e.Canvas().SelectedID() == "" {
		t.Errorf("abort did not restore view state")
	}
}

func TestExport_FailureReturnsToLive(t *testing.T) {
	e := newTestEditor(t)
	mustAdd(t, e, KindBox)
	before := e.Document()

	boom := errors.New("renderer crashed")
	capturer := captureFunc(func(context.Context, Frame) (Capture, error) { return Capture{}, boom })

	if _, err := e.Export(context.Background(), 1, immediatePresenter, capturer); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if e.State() != StateLive {
		t.Errorf("state = %s", e.State())
	}
	if !documentsEqual(before, e.Document()) {
		t.Errorf("failed export changed the document")
	}
	if _, r := e.AddElement(KindText); r != Applied {
		t.Errorf("command after failed export: %s", r)
	}
}

func TestExport_EmptyCaptureIsFailure(t *testing.T) {
	e := newTestEditor(t)
	capturer := captureFunc(func(context.Context, Frame) (Capture, error) { return Capture{}, nil })
	if _, err := e.Export(context.Background(), 1, immediatePresenter, capturer); !errors.Is(err, ErrEmptyCapture) {
		t.Errorf("err = %v, want ErrEmptyCapture", err)
	}
	if e.State() != StateLive {
		t.Errorf("state = %s", e.State())
	}
}

func TestExport_EmptyCanvasAllowed(t *testing.T) {
	e := newTestEditor(t)
	capturer := captureFunc(func(_ context.Context, f Frame) (Capture, error) { return solidCapture(f), nil })
	if _, err := e.Export(context.Background(), 1, immediatePresenter, capturer); err != nil {
		t.Errorf("empty canvas export: %v", err)
	}
}

func TestExport_CaptureRequiresCommittedFrame(t *testing.T) {
	e := newTestEditor(t)
	f, err := e.BeginExport(1)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := e.StartCapture(); !errors.Is(err, ErrFrameNotCommitted) {
		t.Errorf("capture before commit: %v", err)
	}
	if err := e.CommitFrame(f.Seq + 1); !errors.Is(err, ErrFrameNotCommitted) {
		t.Errorf("commit of the wrong frame: %v", err)
	}
	if err := e.CommitFrame(f.Seq); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := e.StartCapture(); err != nil {
		t.Errorf("capture after commit: %v", err)
	}
	e.AbortExport()
}

func TestExport_CommandsBusy(t *testing.T) {
	e := newTestEditor(t)
	id := mustAdd(t, e, KindBox)
	if _, err := e.BeginExport(1); err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer e.AbortExport()

	if r := e.Move(id, 100, 100); r != Busy {
		t.Errorf("move: %s", r)
	}
	if _, r := e.AddElement(KindText); r != Busy {
		t.Errorf("add: %s", r)
	}
	if r := e.Undo(); r != Busy {
		t.Errorf("undo: %s", r)
	}
	if r := e.Select(id); r != Busy {
		t.Errorf("select: %s", r)
	}
	if _, r := e.BeginDrag(id); r != Busy {
		t.Errorf("drag: %s", r)
	}
	if _, err := e.BeginExport(1); !errors.Is(err, ErrBusy) {
		t.Errorf("nested export: %v", err)
	}
}

func TestExport_PresenterFailureAborts(t *testing.T) {
	e := newTestEditor(t)
	called := false
	capturer := captureFunc(func(context.Context, Frame) (Capture, error) {
		called = true
		return Capture{}, nil
	})
	present := PresenterFunc(func(context.Context, Frame) error { return errors.New("no page") })

	if _, err := e.Export(context.Background(), 1, present, capturer); err == nil {
		t.Fatalf("expected error")
	}
	if called {
		t.Errorf("captured a frame that was never presented")
	}
	if e.State() != StateLive {
		t.Errorf("state = %s", e.State())
	}
}

func TestExport_SequenceAdvances(t *testing.T) {
	e := newTestEditor(t)
	f1, _ := e.BeginExport(1)
	e.AbortExport()
	f2, _ := e.BeginExport(1)
	e.AbortExport()
	if f2.Seq <= f1.Seq {
		t.Errorf("seq %d then %d", f1.Seq, f2.Seq)
	}
}
