package main

import (
	"errors"
	"math"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3}|#[0-9A-Fa-f]{6}|transparent)$`)

type Style struct {
	Fill        string  `json:"fill"`
	TextColor   string  `json:"textColor"`
	Opacity     float64 `json:"opacity"`
	Radius      int     `json:"radius"`
	BorderWidth int     `json:"borderWidth"`
	BorderColor string  `json:"borderColor"`
	Shadow      bool    `json:"shadow"`
	FontFamily  string  `json:"fontFamily"`
	Align       Align   `json:"align"`
}

// Validate has a value receiver so nested Style fields are picked up by
// validation.ValidateStruct.
func (s Style) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Fill, validation.Required, validation.Match(colorPattern)),
		validation.Field(&s.TextColor, validation.Required, validation.Match(colorPattern)),
		validation.Field(&s.Opacity, validation.By(finite), validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.Radius, validation.Min(0)),
		validation.Field(&s.BorderWidth, validation.Min(0), validation.Max(50)),
		validation.Field(&s.BorderColor, validation.Required, validation.Match(colorPattern)),
		validation.Field(&s.FontFamily, validation.Required),
		validation.Field(&s.Align, validation.Required, validation.In(AlignLeft, AlignCenter, AlignRight)),
	)
}

// StylePatch is a partial style. Nil fields are left as they are.
type StylePatch struct {
	Fill        *string
	TextColor   *string
	Opacity     *float64
	Radius      *int
	BorderWidth *int
	BorderColor *string
	Shadow      *bool
	FontFamily  *string
	Align       *Align
}

func (p *StylePatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Fill, validation.NilOrNotEmpty, validation.Match(colorPattern)),
		validation.Field(&p.TextColor, validation.NilOrNotEmpty, validation.Match(colorPattern)),
		validation.Field(&p.Opacity, validation.By(finite), validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.Radius, validation.Min(0)),
		validation.Field(&p.BorderWidth, validation.Min(0), validation.Max(50)),
		validation.Field(&p.BorderColor, validation.NilOrNotEmpty, validation.Match(colorPattern)),
		validation.Field(&p.FontFamily, validation.NilOrNotEmpty),
		validation.Field(&p.Align, validation.NilOrNotEmpty, validation.In(AlignLeft, AlignCenter, AlignRight)),
	)
}

func (p StylePatch) applyTo(s Style) Style {
	if p.Fill != nil {
		s.Fill = *p.Fill
	}
	if p.TextColor != nil {
		s.TextColor = *p.TextColor
	}
	if p.Opacity != nil {
		s.Opacity = *p.Opacity
	}
	if p.Radius != nil {
		s.Radius = *p.Radius
	}
	if p.BorderWidth != nil {
		s.BorderWidth = *p.BorderWidth
	}
	if p.BorderColor != nil {
		s.BorderColor = *p.BorderColor
	}
	if p.Shadow != nil {
		s.Shadow = *p.Shadow
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.Align != nil {
		s.Align = *p.Align
	}
	return s
}

func finite(value interface{}) error {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case *float64:
		if v == nil {
			return nil
		}
		f = *v
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("must be a finite number")
	}
	return nil
}

// Element is one placed object on the canvas.
type Element struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Z       int    `json:"zIndex"`
	Locked  bool   `json:"locked"`
	Content string `json:"content"`
	Style   Style  `json:"style"`
}

func (e *Element) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Kind, validation.Required, validation.By(knownKind)),
		validation.Field(&e.Width, validation.Min(minElementSize)),
		validation.Field(&e.Height, validation.Min(minElementSize)),
		validation.Field(&e.Z, validation.Min(0)),
		validation.Field(&e.Style),
	)
}

func knownKind(value interface{}) error {
	if k, ok := value.(Kind); ok && k.Valid() {
		return nil
	}
	return errors.New("unknown element kind")
}

func (e Element) Rect() Rect { return Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height} }

// Patch is a partial element update. Nil fields are left as they are.
type Patch struct {
	X, Y          *int
	Width, Height *int
	Content       *string
	Style         *StylePatch
	Locked        *bool
}

func (p Patch) empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Content == nil && p.Style == nil && p.Locked == nil
}

// onlyLock reports whether the patch touches nothing but the lock flag,
// the one change a locked element accepts.
func (p Patch) onlyLock() bool {
	return p.Locked != nil && p.X == nil && p.Y == nil && p.Width == nil &&
		p.Height == nil && p.Content == nil && p.Style == nil
}

type Settings struct {
	Format     PageFormat `json:"format"`
	Background string     `json:"background"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Format, validation.Required, validation.In(FormatA4, FormatLetter, FormatCustom)),
		validation.Field(&s.Background, validation.Required, validation.Match(colorPattern)),
		validation.Field(&s.Width, validation.Required, validation.Min(minElementSize)),
		validation.Field(&s.Height, validation.Required, validation.Min(minElementSize)),
	)
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Format     *PageFormat
	Background *string
	Width      *int
	Height     *int
}

func (p SettingsPatch) applyTo(s Settings) Settings {
	if p.Format != nil {
		s.Format = *p.Format
	}
	if p.Background != nil {
		s.Background = *p.Background
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	return s
}

func defaultSettings() Settings {
	return Settings{
		Format:     FormatA4,
		Background: defaultBackground,
		Width:      defaultCanvasW,
		Height:     defaultCanvasH,
	}
}

// Document is the unit the history log snapshots.
type Document struct {
	Elements []Element
	Selected string
	Settings Settings
}

func NewDocument(settings Settings) Document {
	return Document{Elements: []Element{}, Settings: settings}
}

// Clone returns a copy that shares no memory with d.
func (d Document) Clone() Document {
	elements := make([]Element, len(d.Elements))
	copy(elements, d.Elements)
	d.Elements = elements
	return d
}

func ptr[T any](v T) *T { return &v }
