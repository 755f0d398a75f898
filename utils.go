package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// pastedContent turns whatever the clipboard holds into plain element
// content: markup is stripped, control characters dropped and line endings
// normalized.
func pastedContent(raw string) string {
	text := raw
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	return cleanClipboardText(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") ||
			strings.Contains(t, "<div") || strings.Contains(t, "<span") || strings.Contains(t, "<p"))
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
)

func extractTextFromHTML(markup string) string {
	var b strings.Builder
	b.Grow(len(markup))
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return htmlEntities.Replace(b.String())
}

// stripRTF drops RTF groups and control words, keeping escaped braces and
// backslashes. \par and \line become newlines.
func stripRTF(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
			if i+1 >= len(runes) {
				continue
			}
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				b.WriteRune(next)
				i++
				continue
			}
			if !isASCIILetter(next) {
				i++
				continue
			}
			start := i + 1
			for i+1 < len(runes) && isASCIILetter(runes[i+1]) {
				i++
			}
			word := string(runes[start : i+1])
			for i+1 < len(runes) && (runes[i+1] == '-' || (runes[i+1] >= '0' && runes[i+1] <= '9')) {
				i++
			}
			if i+1 < len(runes) && runes[i+1] == ' ' {
				i++
			}
			switch word {
			case "par", "line":
				b.WriteRune('\n')
			case "tab":
				b.WriteRune('\t')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func cleanClipboardText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}
	out := strings.ReplaceAll(b.String(), "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	return strings.TrimRight(out, "\n")
}
