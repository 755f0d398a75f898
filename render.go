package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	selectionColor = "#ff9f1c"
	lockColor      = "#d7263d"
	gridDotColor   = "#b0b0b0"
	outsideColor   = "#303030"
	emptyHint      = "Empty canvas: press t, b, r, c, i or m to add an element"
)

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(lockColor)).Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// renderItem is one element as the terminal draws it. selected and locked
// only matter in the live representation.
type renderItem struct {
	el       FrameElement
	selected bool
	locked   bool
}

// scene is what the terminal renderer draws: canvas bounds plus items back
// to front.
type scene struct {
	width      int
	height     int
	background string
	items      []renderItem
	zoom       float64
	grid       int
	// affordances turns on selection outlines, lock badges, the grid and the
	// empty placeholder. The export representation draws without them.
	affordances bool
}

func liveScene(doc Document, v *Viewport) scene {
	c := &Canvas{doc: doc}
	sel := c.SelectedID()
	s := scene{
		width:       doc.Settings.Width,
		height:      doc.Settings.Height,
		background:  doc.Settings.Background,
		zoom:        v.Zoom,
		affordances: true,
	}
	if v.Grid {
		s.grid = v.Cell()
	}
	for _, el := range c.RenderOrder() {
		s.items = append(s.items, renderItem{
			el:       FrameElement{ID: el.ID, Kind: el.Kind, X: el.X, Y: el.Y, Width: el.Width, Height: el.Height, Content: el.Content, Style: el.Style},
			selected: el.ID == sel,
			locked:   el.Locked,
		})
	}
	return s
}

func exportScene(f Frame) scene {
	s := scene{width: f.Width, height: f.Height, background: f.Background, zoom: 1}
	for _, el := range f.Elements {
		s.items = append(s.items, renderItem{el: el})
	}
	return s
}

type cell struct {
	r      rune
	fg, bg string
}

// screenGrid is a clipped character grid with per-cell colors.
type screenGrid struct {
	w, h  int
	cells [][]cell
}

func newScreenGrid(w, h int) *screenGrid {
	g := &screenGrid{w: max(w, 1), h: max(h, 1)}
	g.cells = make([][]cell, g.h)
	for y := range g.cells {
		row := make([]cell, g.w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		g.cells[y] = row
	}
	return g
}

func (g *screenGrid) set(x, y int, r rune, fg string) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	c := &g.cells[y][x]
	c.r = r
	if fg != "" {
		c.fg = fg
	}
}

func (g *screenGrid) fill(r Rect, bg string) {
	for y := max(r.Y, 0); y < min(r.Y+r.H, g.h); y++ {
		for x := max(r.X, 0); x < min(r.X+r.W, g.w); x++ {
			g.cells[y][x] = cell{r: ' ', bg: bg}
		}
	}
}

func (g *screenGrid) text(x, y int, s, fg string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, fg)
	}
}

// lines renders the grid, one lipgloss style per run of equal colors.
func (g *screenGrid) lines() []string {
	out := make([]string, g.h)
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].fg == row[start].fg && row[x].bg == row[start].bg {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(styleFor(row[start].fg, row[start].bg).Render(string(run)))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

func styleFor(fg, bg string) lipgloss.Style {
	st := lipgloss.NewStyle()
	if fg != "" {
		st = st.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}
	return st
}

// termColor expands #rgb to #rrggbb; transparent and invalid colors map to
// the empty string.
func termColor(c string) string {
	if c == "transparent" || !colorPattern.MatchString(c) {
		return ""
	}
	if len(c) == 4 {
		return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
	}
	return strings.ToLower(c)
}

// cellRect converts a document rectangle to screen cells at the given zoom.
// Every element covers at least one cell.
func cellRect(x, y, w, h int, zoom float64, cw, ch int) Rect {
	x0 := int(math.Floor(float64(x) * zoom / float64(cw)))
	y0 := int(math.Floor(float64(y) * zoom / float64(ch)))
	x1 := int(math.Round(float64(x+w) * zoom / float64(cw)))
	y1 := int(math.Round(float64(y+h) * zoom / float64(ch)))
	return Rect{X: x0, Y: y0, W: max(x1-x0, 1), H: max(y1-y0, 1)}
}

type borderSet struct {
	h, v, tl, tr, bl, br rune
}

var (
	plainBorder  = borderSet{'─', '│', '┌', '┐', '└', '┘'}
	roundBorder  = borderSet{'─', '│', '╭', '╮', '╰', '╯'}
	doubleBorder = borderSet{'═', '║', '╔', '╗', '╚', '╝'}
)

const (
	resizeGrip    = '◢'
	lockBadge     = 'L'
	gridDot       = '·'
	outsideFiller = ' '
)

// renderScene draws s into a w×h grid and returns the lines plus the screen
// rectangle of every item.
func renderScene(s scene, w, h, cw, ch int) ([]string, map[string]Rect) {
	g := newScreenGrid(w, h)
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: outsideFiller, bg: outsideColor}
		}
	}
	bounds := cellRect(0, 0, s.width, s.height, s.zoom, cw, ch)
	g.fill(bounds, termColor(s.background))

	if s.affordances && s.grid > 1 {
		drawGrid(g, bounds, s, cw, ch)
	}

	rects := make(map[string]Rect, len(s.items))
	for _, it := range s.items {
		r := cellRect(it.el.X, it.el.Y, it.el.Width, it.el.Height, s.zoom, cw, ch)
		rects[it.el.ID] = r
		drawItem(g, it, r, s.affordances)
	}

	if s.affordances && len(s.items) == 0 {
		hint := emptyHint
		if len([]rune(hint)) > bounds.W {
			hint = "Empty canvas"
		}
		x := bounds.X + (bounds.W-len([]rune(hint)))/2
		g.text(x, bounds.Y+bounds.H/2, hint, gridDotColor)
	}
	return g.lines(), rects
}

func drawGrid(g *screenGrid, bounds Rect, s scene, cw, ch int) {
	step := float64(s.grid) * s.zoom
	for y := bounds.Y; y < bounds.Y+bounds.H; y++ {
		docY := float64(y*ch) / step
		if math.Floor(docY) != math.Floor(docY+float64(ch)/step) || y == bounds.Y {
			for x := bounds.X; x < bounds.X+bounds.W; x++ {
				docX := float64(x*cw) / step
				if math.Floor(docX) != math.Floor(docX+float64(cw)/step) || x == bounds.X {
					g.set(x, y, gridDot, gridDotColor)
				}
			}
		}
	}
}

func drawItem(g *screenGrid, it renderItem, r Rect, affordances bool) {
	el := it.el
	st := el.Style
	if bg := termColor(st.Fill); bg != "" {
		g.fill(r, bg)
	}

	selected := affordances && it.selected
	framed := selected || st.BorderWidth > 0
	if framed && r.W >= 2 && r.H >= 2 {
		set := plainBorder
		color := termColor(st.BorderColor)
		switch {
		case selected:
			set, color = doubleBorder, selectionColor
		case el.Kind == KindCircle || st.Radius > 0:
			set = roundBorder
		}
		drawBorder(g, r, set, color)
	}

	label := el.Content
	if el.Kind == KindImage {
		label = "[" + placeholderLabel(el.Content) + "]"
	}
	drawLabel(g, r, label, st.Align, termColor(st.TextColor), framed)

	if selected && r.W >= 2 && r.H >= 2 {
		g.set(r.X+r.W-1, r.Y+r.H-1, resizeGrip, selectionColor)
	}
	if affordances && it.locked {
		g.set(r.X, r.Y, lockBadge, lockColor)
	}
}

func drawBorder(g *screenGrid, r Rect, b borderSet, fg string) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		g.set(x, r.Y, b.h, fg)
		g.set(x, bottom, b.h, fg)
	}
	for y := r.Y + 1; y < bottom; y++ {
		g.set(r.X, y, b.v, fg)
		g.set(right, y, b.v, fg)
	}
	g.set(r.X, r.Y, b.tl, fg)
	g.set(right, r.Y, b.tr, fg)
	g.set(r.X, bottom, b.bl, fg)
	g.set(right, bottom, b.br, fg)
}

// drawLabel lays content out inside r: lines vertically centered, each
// aligned and truncated to the inner width.
func drawLabel(g *screenGrid, r Rect, label string, align Align, fg string, framed bool) {
	if label == "" {
		return
	}
	inner := r
	if framed && r.W > 2 && r.H > 2 {
		inner = Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
	}
	lines := strings.Split(label, "\n")
	if len(lines) > inner.H {
		lines = lines[:inner.H]
	}
	top := inner.Y + (inner.H-len(lines))/2
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > inner.W {
			runes = runes[:inner.W]
		}
		x := inner.X
		switch align {
		case AlignCenter:
			x += (inner.W - len(runes)) / 2
		case AlignRight:
			x += inner.W - len(runes)
		}
		g.text(x, top+i, string(runes), fg)
	}
}
