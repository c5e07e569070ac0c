// kanoonsathi/utils/markdown/markdown.go
//
// Plain-text derivation from markdown message content. This is not a markdown
// parser: the sidebar only needs a short title and a one-line preview, so we
// strip the handful of markers the assistant actually emits.
package markdown

import (
	"regexp"
	"strings"
)

const (
	titleLimit   = 30
	previewLimit = 60
	ellipsis     = "..."
	fenceMarker  = "[Code Block]"
)

var (
	headingRe = regexp.MustCompile(`(?m)^#{1,6}`)
	fenceRe   = regexp.MustCompile("(?s)```.*?```")
	boldRe    = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	italicRe  = regexp.MustCompile(`\*([^*]*)\*`)
	underRe   = regexp.MustCompile(`__?([^_]*)__?`)
	inlineRe  = regexp.MustCompile("`([^`]*)`")
)

// DeriveTitle builds a conversation title from the first message: first
// non-empty line, leading heading marker dropped, cut at 30 characters.
func DeriveTitle(content string) string {
	line := firstNonEmptyLine(content)
	line = headingRe.ReplaceAllString(line, "")
	return truncate(line, titleLimit)
}

// Preview flattens message content to a single plain-text line for the
// conversation list. Fenced code is replaced with a fixed marker rather than
// leaking raw code into the sidebar.
func Preview(content string) string {
	s := fenceRe.ReplaceAllString(content, fenceMarker)
	if i := strings.Index(s, "```"); i >= 0 {
		// unterminated fence: everything after it is code
		s = s[:i] + fenceMarker
	}
	s = headingRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = underRe.ReplaceAllString(s, "$1")
	s = inlineRe.ReplaceAllString(s, "$1")
	s = strings.Join(strings.Fields(s), " ")
	return truncate(s, previewLimit)
}

func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return strings.TrimSpace(string(runes[:limit])) + ellipsis
	}
	return strings.TrimSpace(s)
}
