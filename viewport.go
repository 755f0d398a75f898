package main

// Viewport is presentation state: it parameterizes geometry but is never
// recorded in history.
type Viewport struct {
	Zoom     float64
	Grid     bool
	GridSize int
	Bounded  bool
}

func NewViewport(cfg EditorConfig) *Viewport {
	return &Viewport{
		Zoom:     1,
		Grid:     cfg.Grid,
		GridSize: cfg.GridSize,
		Bounded:  cfg.Bounded,
	}
}

// Cell is the snapping cell size; 1 when the grid is off.
func (v *Viewport) Cell() int {
	if !v.Grid || v.GridSize < 1 {
		return 1
	}
	return v.GridSize
}

func (v *Viewport) ToggleGrid() { v.Grid = !v.Grid }

func (v *Viewport) ZoomPercent() int { return int(v.Zoom*100 + 0.5) }

func (v *Viewport) ZoomIn() {
	cur := v.ZoomPercent()
	for _, step := range zoomSteps {
		if step > cur {
			v.Zoom = float64(step) / 100
			return
		}
	}
}

func (v *Viewport) ZoomOut() {
	cur := v.ZoomPercent()
	for i := len(zoomSteps) - 1; i >= 0; i-- {
		if zoomSteps[i] < cur {
			v.Zoom = float64(zoomSteps[i]) / 100
			return
		}
	}
}

func (v *Viewport) ResetZoom() { v.Zoom = 1 }
