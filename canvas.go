package main

import (
	"sort"

	"github.com/google/uuid"
)

// Canvas is the element store. It owns element identity, z-order, the lock
// flags and the selection. Only the Editor mutates it.
type Canvas struct {
	doc   Document
	newID func() string
}

func NewCanvas(settings Settings) *Canvas {
	return &Canvas{
		doc:   NewDocument(settings),
		newID: uuid.NewString,
	}
}

func elementTemplate(kind Kind) Element {
	el := Element{
		Kind:   kind,
		X:      spawnX,
		Y:      spawnY,
		Width:  180,
		Height: 40,
		Style: Style{
			Fill:        "transparent",
			TextColor:   "#222222",
			Opacity:     1,
			BorderColor: "#888888",
			FontFamily:  "sans-serif",
			Align:       AlignLeft,
		},
	}
	switch kind {
	case KindText:
		el.Content = "New text"
	case KindButton:
		el.Content = "Button"
		el.Style.Fill = "#2f6fdf"
		el.Style.TextColor = "#ffffff"
		el.Style.Radius = 6
		el.Style.Align = AlignCenter
	case KindBox:
		el.Width, el.Height = 160, 100
		el.Style.Fill = "#eeeeee"
		el.Style.BorderWidth = 1
	case KindCircle:
		el.Width, el.Height = 100, 100
		el.Style.Fill = "#eeeeee"
		el.Style.BorderWidth = 1
	case KindImage:
		el.Width, el.Height = 150, 100
		el.Content = "Image"
		el.Style.Fill = "#cccccc"
		el.Style.TextColor = "#555555"
		el.Style.Align = AlignCenter
	case KindInput:
		el.Width, el.Height = 200, 36
		el.Content = "Input…"
		el.Style.Fill = "#ffffff"
		el.Style.TextColor = "#999999"
		el.Style.BorderWidth = 1
		el.Style.Radius = 4
	}
	return el
}

func (c *Canvas) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range c.doc.Elements {
		if c.doc.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Canvas) Element(id string) (Element, bool) {
	i := c.index(id)
	if i < 0 {
		return Element{}, false
	}
	return c.doc.Elements[i], true
}

// Elements returns the elements in document order.
func (c *Canvas) Elements() []Element {
	out := make([]Element, len(c.doc.Elements))
	copy(out, c.doc.Elements)
	return out
}

func (c *Canvas) Len() int { return len(c.doc.Elements) }

func (c *Canvas) IDs() []string {
	ids := make([]string, len(c.doc.Elements))
	for i, el := range c.doc.Elements {
		ids[i] = el.ID
	}
	return ids
}

// RenderOrder returns the elements back to front: ascending z, ties in
// document order.
func (c *Canvas) RenderOrder() []Element {
	out := c.Elements()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Selected returns the selected element. A selection pointing at an id that
// no longer exists counts as no selection.
func (c *Canvas) Selected() (Element, bool) {
	return c.Element(c.doc.Selected)
}

func (c *Canvas) SelectedID() string {
	if _, ok := c.Selected(); !ok {
		return ""
	}
	return c.doc.Selected
}

func (c *Canvas) Settings() Settings { return c.doc.Settings }

func (c *Canvas) Snapshot() Document { return c.doc.Clone() }

func (c *Canvas) install(doc Document) { c.doc = doc.Clone() }

func (c *Canvas) maxZ() int {
	z := 0
	for _, el := range c.doc.Elements {
		z = max(z, el.Z)
	}
	return z
}

func (c *Canvas) minZ() int {
	if len(c.doc.Elements) == 0 {
		return 0
	}
	z := c.doc.Elements[0].Z
	for _, el := range c.doc.Elements[1:] {
		z = min(z, el.Z)
	}
	return z
}

func (c *Canvas) uniqueID() string {
	for {
		id := c.newID()
		if c.index(id) < 0 {
			return id
		}
	}
}

func (c *Canvas) addElement(kind Kind) string {
	el := elementTemplate(kind)
	el.ID = c.uniqueID()
	el.Z = c.maxZ() + 1
	c.doc.Elements = append(c.doc.Elements, el)
	return el.ID
}

// updateElement applies p as is. It refuses unknown ids, and locked elements
// unless p only touches the lock flag.
func (c *Canvas) updateElement(id string, p Patch) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	el := &c.doc.Elements[i]
	if el.Locked && !p.onlyLock() {
		return false
	}
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Content != nil {
		el.Content = *p.Content
	}
	if p.Style != nil {
		el.Style = p.Style.applyTo(el.Style)
	}
	if p.Locked != nil {
		el.Locked = *p.Locked
	}
	return true
}

func (c *Canvas) deleteElement(id string) bool {
	i := c.index(id)
	if i < 0 || c.doc.Elements[i].Locked {
		return false
	}
	c.doc.Elements = append(c.doc.Elements[:i], c.doc.Elements[i+1:]...)
	if c.doc.Selected == id {
		c.doc.Selected = ""
	}
	return true
}

// duplicateElement copies everything but the id, shifts the copy by
// (dx, dy) and selects it.
func (c *Canvas) duplicateElement(id string, dx, dy int) (string, bool) {
	i := c.index(id)
	if i < 0 {
		return "", false
	}
	dup := c.doc.Elements[i]
	dup.ID = c.uniqueID()
	dup.X += dx
	dup.Y += dy
	c.doc.Elements = append(c.doc.Elements, dup)
	c.doc.Selected = dup.ID
	return dup.ID, true
}

// reorder moves an element in z. Forward and Backward step by one without
// renumbering anyone else; ToFront and ToBack also move the element to the
// matching end of the slice so ties resolve the right way.
func (c *Canvas) reorder(id string, dir Direction) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	el := c.doc.Elements[i]
	switch dir {
	case Forward:
		c.doc.Elements[i].Z++
		return true
	case Backward:
		c.doc.Elements[i].Z = max(el.Z-1, 0)
		return true
	case ToFront:
		el.Z = c.maxZ() + 1
		rest := append(c.doc.Elements[:i:i], c.doc.Elements[i+1:]...)
		c.doc.Elements = append(rest, el)
		return true
	case ToBack:
		el.Z = max(c.minZ()-1, 0)
		rest := append(c.doc.Elements[:i:i], c.doc.Elements[i+1:]...)
		c.doc.Elements = append([]Element{el}, rest...)
		return true
	}
	return false
}

func (c *Canvas) setLock(id string, locked bool) bool {
	return c.updateElement(id, Patch{Locked: &locked})
}

func (c *Canvas) selectElement(id string) bool {
	if id == "" {
		c.doc.Selected = ""
		return true
	}
	if c.index(id) < 0 {
		return false
	}
	c.doc.Selected = id
	return true
}

func (c *Canvas) setSettings(s Settings) { c.doc.Settings = s }
