// Package sanitizer turns HTML message bodies into plain text alternatives.
package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once

	anchorRe     = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*["']([^"']+)["'][^>]*>(.*?)</a>`)
	lineBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockEndRe   = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|table|blockquote|pre|ul|ol)>`)
	listItemRe   = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	invisibleRe  = regexp.MustCompile(`(?is)<(head|style|script|title)\b[^>]*>.*?</(head|style|script|title)>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t\f\v]+`)
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// PlainText renders an HTML body as readable plain text.
//
// Block elements become line breaks, list items get a "- " marker and links
// are written as "label (url)". All remaining markup is stripped with a strict
// bluemonday policy and entities are unescaped.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	initPolicies()

	s = invisibleRe.ReplaceAllString(s, "")
	s = anchorRe.ReplaceAllStringFunc(s, rewriteAnchor)
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = listItemRe.ReplaceAllString(s, "\n- ")
	s = blockEndRe.ReplaceAllString(s, "\n\n")

	s = html.UnescapeString(strictPolicy.Sanitize(s))

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

func rewriteAnchor(a string) string {
	m := anchorRe.FindStringSubmatch(a)
	href, label := m[1], m[2]

	text := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(label)))
	switch {
	case strings.HasPrefix(strings.ToLower(href), "javascript:"):
		return label
	case text == "" || text == href || "mailto:"+text == href:
		return href
	}
	return label + " (" + href + ")"
}
