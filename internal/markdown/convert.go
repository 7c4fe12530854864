package markdown

import (
	"regexp"
	"strings"
)

// ToHTML converts markdown to the editor's HTML form. Empty input yields
// an empty string.
func ToHTML(md string) string {
	return RenderHTML(Parse(md))
}

// ToMarkdown converts editor HTML back to markdown. Markup that cannot be
// parsed is returned as plain text with the tags stripped.
func ToMarkdown(h string) string {
	doc, err := ParseHTML(h)
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(h, ""))
	}
	return RenderMarkdown(doc)
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Strip reduces markdown to its visible text on a single line, for list
// previews and search.
func Strip(md string) string {
	doc := Parse(md)
	parts := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case BulletList, OrderedList:
			for _, it := range blk.Items {
				parts = append(parts, PlainText(it.Inlines))
			}
		default:
			parts = append(parts, PlainText(blk.Inlines))
		}
	}
	return strings.TrimSpace(spacePattern.ReplaceAllString(strings.Join(parts, " "), " "))
}

// Excerpt is Strip cut to at most n runes, with an ellipsis when shortened.
func Excerpt(md string, n int) string {
	s := []rune(Strip(md))
	if n <= 0 || len(s) <= n {
		return string(s)
	}
	return strings.TrimSpace(string(s[:n])) + "…"
}
