package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	baseFontSize = 14.0
	textPadding  = 6.0
	shadowOffset = 3.0
)

// rasterCapturer draws a frame straight into an image with gg.
type rasterCapturer struct {
	regular *truetype.Font
	mono    *truetype.Font
}

func newRasterCapturer() (*rasterCapturer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	mono, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return &rasterCapturer{regular: regular, mono: mono}, nil
}

func (r *rasterCapturer) face(family string, size float64) font.Face {
	f := r.regular
	if strings.Contains(strings.ToLower(family), "mono") {
		f = r.mono
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (r *rasterCapturer) Capture(ctx context.Context, f Frame) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return Capture{}, err
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Round(float64(f.Width) * scale))
	height := int(math.Round(float64(f.Height) * scale))
	if width <= 0 || height <= 0 {
		return Capture{}, ErrEmptyCapture
	}

	dc := gg.NewContext(width, height)
	if c, ok := parseColor(f.Background, 1); ok {
		dc.SetColor(c)
	} else {
		dc.SetColor(color.White)
	}
	dc.Clear()

	for _, el := range f.Elements {
		if err := ctx.Err(); err != nil {
			return Capture{}, err
		}
		r.drawElement(dc, el, scale)
	}

	return Capture{Width: width, Height: height, Image: dc.Image()}, nil
}

func (r *rasterCapturer) drawElement(dc *gg.Context, el FrameElement, scale float64) {
	x := float64(el.X) * scale
	y := float64(el.Y) * scale
	w := float64(el.Width) * scale
	h := float64(el.Height) * scale
	st := el.Style
	radius := float64(st.Radius) * scale

	shape := func(dx, dy float64) {
		if el.Kind == KindCircle {
			dc.DrawEllipse(x+dx+w/2, y+dy+h/2, w/2, h/2)
			return
		}
		dc.DrawRoundedRectangle(x+dx, y+dy, w, h, radius)
	}

	if st.Shadow {
		shape(shadowOffset*scale, shadowOffset*scale)
		dc.SetRGBA(0, 0, 0, 0.25*st.Opacity)
		dc.Fill()
	}

	if fill, ok := parseColor(st.Fill, st.Opacity); ok {
		shape(0, 0)
		dc.SetColor(fill)
		dc.Fill()
	}

	if el.Kind == KindImage {
		if img, err := decodeImageContent(el.Content); err == nil {
			b := img.Bounds()
			dc.Push()
			dc.Translate(x, y)
			dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
			dc.DrawImage(img, 0, 0)
			dc.Pop()
		} else {
			r.drawText(dc, el, "["+placeholderLabel(el.Content)+"]", x, y, w, h, scale)
		}
	} else if el.Content != "" {
		r.drawText(dc, el, el.Content, x, y, w, h, scale)
	}

	if st.BorderWidth > 0 {
		if border, ok := parseColor(st.BorderColor, st.Opacity); ok {
			shape(0, 0)
			dc.SetLineWidth(float64(st.BorderWidth) * scale)
			dc.SetColor(border)
			dc.Stroke()
		}
	}
}

func (r *rasterCapturer) drawText(dc *gg.Context, el FrameElement, text string, x, y, w, h, scale float64) {
	fg, ok := parseColor(el.Style.TextColor, el.Style.Opacity)
	if !ok {
		return
	}
	dc.SetFontFace(r.face(el.Style.FontFamily, baseFontSize*scale))
	dc.SetColor(fg)

	pad := textPadding * scale
	align := gg.AlignLeft
	switch el.Style.Align {
	case AlignCenter:
		align = gg.AlignCenter
	case AlignRight:
		align = gg.AlignRight
	}
	dc.Push()
	dc.DrawRectangle(x, y, w, h)
	dc.Clip()
	dc.DrawStringWrapped(text, x+pad, y+h/2, 0, 0.5, math.Max(w-2*pad, 1), 1.3, align)
	dc.ResetClip()
	dc.Pop()
}

func placeholderLabel(content string) string {
	if content == "" || strings.HasPrefix(content, "data:") {
		return "image"
	}
	return content
}

// decodeImageContent loads an image element's content: a base64 data URI
// or a local file path.
func decodeImageContent(content string) (image.Image, error) {
	var data []byte
	switch {
	case strings.HasPrefix(content, "data:"):
		comma := strings.IndexByte(content, ',')
		if comma < 0 || !strings.Contains(content[:comma], ";base64") {
			return nil, fmt.Errorf("unsupported data URI")
		}
		decoded, err := base64.StdEncoding.DecodeString(content[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("decode data URI: %w", err)
		}
		data = decoded
	case strings.HasPrefix(content, "file://"), strings.HasPrefix(content, "/"), strings.HasPrefix(content, "./"):
		raw, err := os.ReadFile(strings.TrimPrefix(content, "file://"))
		if err != nil {
			return nil, err
		}
		data = raw
	default:
		return nil, fmt.Errorf("unsupported image source %q", content)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// parseColor reads #rgb, #rrggbb or "transparent". Transparent reports false
// so callers skip the paint.
func parseColor(s string, opacity float64) (color.NRGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" || !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	opacity = math.Min(math.Max(opacity, 0), 1)
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(math.Round(opacity * 255)),
	}, true
}
