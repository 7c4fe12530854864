package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// RenderMarkdown writes the document back as markdown. The output parses to
// the same document, though it need not match the text it was read from.
func RenderMarkdown(doc Document) string {
	parts := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case Heading:
			w := &mdWriter{breakAs: " "}
			w.inlines(blk.Inlines)
			parts = append(parts, strings.Repeat("#", blk.Level)+" "+w.String())
		case Blockquote:
			w := &mdWriter{breakAs: "\n> "}
			w.inlines(blk.Inlines)
			parts = append(parts, "> "+w.String())
		case BulletList, OrderedList:
			parts = append(parts, renderList(blk))
		default:
			w := &mdWriter{breakAs: "\n"}
			w.inlines(blk.Inlines)
			parts = append(parts, w.String())
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderList(blk Block) string {
	bullet := "* "
	for _, it := range blk.Items {
		if it.Task {
			bullet = "- "
			break
		}
	}

	lines := make([]string, 0, len(blk.Items))
	for i, it := range blk.Items {
		marker := bullet
		if blk.Kind == OrderedList {
			start := blk.Start
			if start < 1 {
				start = 1
			}
			marker = strconv.Itoa(start+i) + ". "
		}
		if it.Task {
			if it.Checked {
				marker += "[x] "
			} else {
				marker += "[ ] "
			}
		}
		w := &mdWriter{breakAs: "\n" + strings.Repeat(" ", len(marker))}
		w.inlines(it.Inlines)
		lines = append(lines, marker+w.String())
	}
	return strings.Join(lines, "\n")
}

type mdWriter struct {
	b       strings.Builder
	breakAs string
	midLine bool
}

func (w *mdWriter) String() string {
	return w.b.String()
}

func (w *mdWriter) inlines(in []Inline) {
	for _, n := range in {
		switch n.Kind {
		case Text:
			w.text(n.Text)
		case Code:
			w.write(codeSpan(n.Text))
		case Break:
			w.b.WriteString(w.breakAs)
			w.midLine = strings.HasSuffix(w.breakAs, " ") && !strings.Contains(w.breakAs, "\n")
		case Bold:
			w.wrap("**", n.Children)
		case Italic:
			w.wrap("*", n.Children)
		case Strike:
			w.wrap("~~", n.Children)
		case Underline:
			w.wrap("<u>", n.Children)
		case Link:
			w.write("[")
			w.inlines(n.Children)
			w.write("](" + escapeURL(n.URL) + ")")
		}
	}
}

func (w *mdWriter) wrap(marker string, children []Inline) {
	closing := marker
	if marker == "<u>" {
		closing = "</u>"
	}
	w.write(marker)
	w.inlines(children)
	w.write(closing)
}

func (w *mdWriter) write(s string) {
	w.b.WriteString(s)
	w.midLine = true
}

var orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)

func (w *mdWriter) text(s string) {
	escaped := escapeText(s)
	if !w.midLine {
		escaped = strings.TrimLeft(escaped, " \t")
		if escaped == "" {
			return
		}
		switch escaped[0] {
		case '+', '-', '=':
			escaped = `\` + escaped
		default:
			escaped = orderedMarker.ReplaceAllString(escaped, `$1\$2`)
		}
	}
	w.write(escaped)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`~`, `\~`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`&`, `\&`,
	`#`, `\#`,
	`|`, `\|`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeURL(u string) string {
	if strings.ContainsAny(u, " ()<>") {
		return "<" + strings.NewReplacer("<", "%3C", ">", "%3E").Replace(u) + ">"
	}
	return u
}

func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") ||
		(strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ") && strings.TrimSpace(s) != "") {
		s = " " + s + " "
	}
	return fence + s + fence
}
