// internal/markdown/markdown.go
// Package markdown converts the small markdown subset used in analysis
// commentary into HTML fragments.
package markdown

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ToHTML renders commentary text. Each line is classified on its own: "* "
// items are grouped into a single list, "#", "##" and "###" become headings,
// any other non-blank line becomes a paragraph. Bold spans are applied inside
// every block. Other HTML is passed through untouched.
func ToHTML(text string) string {
	var b strings.Builder
	inList := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "* ") {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			writeBlock(&b, "li", trimmed[2:])
			continue
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		switch {
		case strings.HasPrefix(trimmed, "### "):
			writeBlock(&b, "h3", trimmed[4:])
		case strings.HasPrefix(trimmed, "## "):
			writeBlock(&b, "h2", trimmed[3:])
		case strings.HasPrefix(trimmed, "# "):
			writeBlock(&b, "h1", trimmed[2:])
		case trimmed != "":
			writeBlock(&b, "p", trimmed)
		}
	}
	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func writeBlock(b *strings.Builder, tag, content string) {
	b.WriteString("<" + tag + ">")
	b.WriteString(boldPattern.ReplaceAllString(content, "<strong>$1</strong>"))
	b.WriteString("</" + tag + ">")
}

// Excerpt shortens text to at most limit runes, appending "..." only when
// something was cut.
func Excerpt(text string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

// PlainText strips the block markers so commentary reads cleanly in a
// terminal. Bold markers are removed; list items keep a bullet.
func PlainText(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "* "):
			trimmed = "• " + trimmed[2:]
		case strings.HasPrefix(trimmed, "### "):
			trimmed = trimmed[4:]
		case strings.HasPrefix(trimmed, "## "):
			trimmed = trimmed[3:]
		case strings.HasPrefix(trimmed, "# "):
			trimmed = trimmed[2:]
		}
		if trimmed == "" {
			continue
		}
		out = append(out, boldPattern.ReplaceAllString(trimmed, "$1"))
	}
	return strings.Join(out, "\n")
}
