package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const frameRootID = "easel-root"

// HTML renders the frame as static markup: one absolutely positioned node
// per element, in stacking order, with no interactive affordances.
func (f Frame) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	b.WriteString("body { margin: 0; }\n")
	b.WriteString(".el { position: absolute; box-sizing: border-box; overflow: hidden; display: flex; align-items: center; padding: 0 6px; font-size: 14px; }\n")
	b.WriteString(".el img { width: 100%; height: 100%; object-fit: fill; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<div id=%q style=\"position: relative; width: %dpx; height: %dpx; background: %s;\">\n",
		frameRootID, f.Width, f.Height, cssColor(f.Background))
	for i, el := range f.Elements {
		b.WriteString(elementHTML(el, i))
		b.WriteString("\n")
	}
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

func elementHTML(el FrameElement, z int) string {
	st := el.Style
	radius := fmt.Sprintf("%dpx", st.Radius)
	if el.Kind == KindCircle {
		radius = "50%"
	}
	justify := "flex-start"
	switch st.Align {
	case AlignCenter:
		justify = "center"
	case AlignRight:
		justify = "flex-end"
	}
	style := fmt.Sprintf("left: %dpx; top: %dpx; width: %dpx; height: %dpx; z-index: %d; "+
		"background: %s; color: %s; opacity: %g; border-radius: %s; border: %dpx solid %s; "+
		"font-family: %s; justify-content: %s; text-align: %s;",
		el.X, el.Y, el.Width, el.Height, z,
		cssColor(st.Fill), cssColor(st.TextColor), st.Opacity, radius, st.BorderWidth, cssColor(st.BorderColor),
		html.EscapeString(st.FontFamily), justify, st.Align)
	if st.Shadow {
		style += " box-shadow: 3px 3px 6px rgba(0,0,0,0.25);"
	}

	content := html.EscapeString(el.Content)
	var inner string
	switch el.Kind {
	case KindButton:
		inner = fmt.Sprintf("<span>%s</span>", content)
	case KindInput:
		inner = fmt.Sprintf("<span style=\"opacity: 0.7\">%s</span>", content)
	case KindImage:
		if strings.HasPrefix(el.Content, "data:") {
			inner = fmt.Sprintf("<img src=\"%s\" alt=\"\">", content)
		} else {
			inner = fmt.Sprintf("<span>[%s]</span>", html.EscapeString(placeholderLabel(el.Content)))
		}
	default:
		inner = fmt.Sprintf("<span>%s</span>", content)
	}
	return fmt.Sprintf("<div class=\"el el-%s\" id=%q style=\"%s\">%s</div>",
		el.Kind, "el-"+el.ID, style, inner)
}

func cssColor(c string) string {
	if colorPattern.MatchString(c) {
		return c
	}
	return "transparent"
}

// chromeCapturer lays the frame out in headless Chrome and screenshots the
// root node. Present and Capture share one browser tab.
type chromeCapturer struct {
	timeout   time.Duration
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	presented int
}

func newChromeCapturer(timeout time.Duration, logger *slog.Logger) *chromeCapturer {
	return &chromeCapturer{timeout: timeout, logger: logger, presented: -1}
}

// browser starts Chrome on first use. The first Run allocates the browser
// and must not carry a timeout, or the timeout would stop the browser too.
func (c *chromeCapturer) browser() (context.Context, error) {
	if c.ctx != nil {
		return c.ctx, nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	c.ctx = ctx
	c.cancel = func() {
		cancelCtx()
		cancelAlloc()
	}
	c.logger.Info("chrome: browser started")
	return c.ctx, nil
}

// run executes tasks in the browser tab, bounded by the timeout and by ctx.
func (c *chromeCapturer) run(ctx context.Context, tasks chromedp.Tasks) error {
	browserCtx, err := c.browser()
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(browserCtx, c.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, tasks)
}

func (c *chromeCapturer) Present(ctx context.Context, f Frame) error {
	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(f.HTML()))
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(f.Width), int64(f.Height), chromedp.EmulateScale(scale)),
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible("#"+frameRootID, chromedp.ByQuery),
	}
	if err := c.run(ctx, tasks); err != nil {
		return fmt.Errorf("chromedp present failed: %w", err)
	}
	c.presented = f.Seq
	c.logger.Debug("chrome: frame presented", slog.Int("seq", f.Seq))
	return nil
}

func (c *chromeCapturer) Capture(ctx context.Context, f Frame) (Capture, error) {
	if c.presented != f.Seq {
		if err := c.Present(ctx, f); err != nil {
			return Capture{}, err
		}
	}
	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Screenshot("#"+frameRootID, &buf, chromedp.ByQuery),
	}
	if err := c.run(ctx, tasks); err != nil {
		return Capture{}, fmt.Errorf("chromedp screenshot failed: %w", err)
	}
	if len(buf) == 0 {
		return Capture{}, ErrEmptyCapture
	}
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return Capture{}, fmt.Errorf("failed to decode PNG screenshot: %w", err)
	}
	b := img.Bounds()
	return Capture{Width: b.Dx(), Height: b.Dy(), Image: img}, nil
}

func (c *chromeCapturer) Close() {
	if c.cancel != nil {
		c.cancel()
		c.ctx = nil
		c.cancel = nil
	}
}
