package main

import (
	"strings"
	"testing"
)

func TestFrameHTML(t *testing.T) {
	doc := NewDocument(defaultSettings())
	text := elementTemplate(KindText)
	text.ID, text.Z = "t1", 2
	text.Content = `<b>"hi"</b>`
	circle := elementTemplate(KindCircle)
	circle.ID, circle.Z = "c1", 1
	doc.Elements = append(doc.Elements, text, circle)

	out := buildFrame(1, doc, 1).HTML()

	for _, want := range []string{
		`id="easel-root"`,
		`id="el-t1"`,
		`id="el-c1"`,
		"&lt;b&gt;",
		"border-radius: 50%",
		"width: 800px; height: 600px",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(out, "<b>") {
		t.Errorf("content not escaped")
	}
	if strings.Index(out, `id="el-c1"`) > strings.Index(out, `id="el-t1"`) {
		t.Errorf("elements not in stacking order")
	}
}

func TestCSSColor(t *testing.T) {
	if got := cssColor("#abc"); got != "#abc" {
		t.Errorf("cssColor(#abc) = %q", got)
	}
	if got := cssColor("url(evil)"); got != "transparent" {
		t.Errorf("cssColor passed through %q", got)
	}
}
