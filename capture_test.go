package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestRasterCapturer_Pixels(t *testing.T) {
	rc, err := newRasterCapturer()
	if err != nil {
		t.Fatalf("capturer: %v", err)
	}
	box := elementTemplate(KindBox)
	box.ID = "box"
	box.X, box.Y, box.Width, box.Height = 0, 0, 10, 10
	box.Style.Fill = "#0000ff"
	box.Style.BorderWidth = 0

	doc := NewDocument(Settings{Format: FormatCustom, Background: "#ff0000", Width: 20, Height: 10})
	doc.Elements = append(doc.Elements, box)
	f := buildFrame(1, doc, 2)

	c, err := rc.Capture(context.Background(), f)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if c.Width != 40 || c.Height != 20 {
		t.Fatalf("size = %d×%d, want 40×20", c.Width, c.Height)
	}
	if r, g, b := rgbAt(c.Image, 10, 10); r != 0 || g != 0 || b != 255 {
		t.Errorf("inside box = %d,%d,%d, want blue", r, g, b)
	}
	if r, g, b := rgbAt(c.Image, 30, 10); r != 255 || g != 0 || b != 0 {
		t.Errorf("background = %d,%d,%d, want red", r, g, b)
	}
}

func TestRasterCapturer_Cancelled(t *testing.T) {
	rc, err := newRasterCapturer()
	if err != nil {
		t.Fatalf("capturer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rc.Capture(ctx, buildFrame(1, NewDocument(defaultSettings()), 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		opacity float64
		want    color.NRGBA
		ok      bool
	}{
		{"#ff8000", 1, color.NRGBA{R: 255, G: 128, B: 0, A: 255}, true},
		{"#FFF", 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"#000000", 0.5, color.NRGBA{A: 128}, true},
		{"#000000", 3, color.NRGBA{A: 255}, true},
		{"transparent", 1, color.NRGBA{}, false},
		{"red", 1, color.NRGBA{}, false},
		{"#12345", 1, color.NRGBA{}, false},
		{"#zzzzzz", 1, color.NRGBA{}, false},
	}
	for _, c := range cases {
		got, ok := parseColor(c.in, c.opacity)
		if ok != c.ok || got != c.want {
			t.Errorf("parseColor(%q, %v) = %v, %v, want %v, %v", c.in, c.opacity, got, ok, c.want, c.ok)
		}
	}
}

func TestDecodeImageContent(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := decodeImageContent(uri)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}

	for _, bad := range []string{"Image", "data:image/png,abc", "data:image/png;base64,!!!"} {
		if _, err := decodeImageContent(bad); err == nil {
			t.Errorf("decodeImageContent(%q) succeeded", bad)
		}
	}
}

func TestPlaceholderLabel(t *testing.T) {
	if got := placeholderLabel("logo.png"); got != "logo.png" {
		t.Errorf("label = %q", got)
	}
	if got := placeholderLabel("data:image/png;base64,AAAA"); got != "image" {
		t.Errorf("data uri label = %q", got)
	}
}
