package main

import "math"

// SnapToGrid rounds v to the nearest multiple of cell. A cell of 1 or less
// means the grid is off.
func SnapToGrid(v, cell int) int {
	if cell <= 1 {
		return v
	}
	return int(math.Round(float64(v)/float64(cell))) * cell
}

// ScaleForZoom converts a screen-space delta into document space so drag
// speed feels the same at every zoom level.
func ScaleForZoom(delta int, zoom float64) int {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	return int(math.Round(float64(delta) / zoom))
}

func ClampSize(w, h, floor int) (int, int) {
	return max(w, floor), max(h, floor)
}

// ClampToParent keeps a w×h rectangle at (x, y) inside a pw×ph parent. An
// element larger than its parent is pinned to the origin.
func ClampToParent(x, y, w, h, pw, ph int) (int, int) {
	x = min(x, pw-w)
	y = min(y, ph-h)
	return max(x, 0), max(y, 0)
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }
