package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.TaskList,
	),
).Parser()

// Parse reads the supported markdown subset. Anything outside of it is kept
// as literal text inside a paragraph.
func Parse(source string) Document {
	if strings.TrimSpace(source) == "" {
		return Document{}
	}

	src := []byte(source)
	root := mdParser.Parse(text.NewReader(src))
	c := &mdConverter{src: src}

	var doc Document
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		doc.Blocks = append(doc.Blocks, c.block(n)...)
	}
	return doc.normalized()
}

type mdConverter struct {
	src []byte
}

func (c *mdConverter) block(n ast.Node) []Block {
	switch node := n.(type) {
	case *ast.Heading:
		if node.Level > 3 {
			return []Block{c.literal(n)}
		}
		return []Block{{Kind: Heading, Level: node.Level, Inlines: c.inlines(n)}}
	case *ast.Paragraph, *ast.TextBlock:
		return []Block{{Kind: Paragraph, Inlines: c.inlines(n)}}
	case *ast.List:
		b := Block{Kind: BulletList}
		if node.IsOrdered() {
			b.Kind = OrderedList
			b.Start = node.Start
		}
		b.Items = c.listItems(node)
		return []Block{b}
	case *ast.Blockquote:
		return []Block{{Kind: Blockquote, Inlines: c.container(n)}}
	default:
		return []Block{c.literal(n)}
	}
}

// listItems flattens nested lists into the parent list, in document order.
// The editor's list blocks are one level deep.
func (c *mdConverter) listItems(list *ast.List) []ListItem {
	var items []ListItem
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		item := ListItem{}
		var nested []ListItem
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			if sub, ok := child.(*ast.List); ok {
				nested = append(nested, c.listItems(sub)...)
				continue
			}
			if box, ok := child.FirstChild().(*extast.TaskCheckBox); ok && len(item.Inlines) == 0 {
				item.Task = true
				item.Checked = box.IsChecked
			}
			if len(item.Inlines) > 0 {
				item.Inlines = append(item.Inlines, Inline{Kind: Break})
			}
			item.Inlines = append(item.Inlines, c.inlines(child)...)
		}
		if item.Task {
			item.Inlines = trimLeadingSpace(item.Inlines)
		}
		items = append(items, item)
		items = append(items, nested...)
	}
	return items
}

// container flattens the paragraphs of a blockquote into one inline run.
// Headings inside a quote keep their text but not their level.
func (c *mdConverter) container(n ast.Node) []Inline {
	var out []Inline
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if len(out) > 0 {
			out = append(out, Inline{Kind: Break})
		}
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			out = append(out, c.inlines(child)...)
		default:
			out = append(out, c.literal(child).Inlines...)
		}
	}
	return out
}

// literal turns an unsupported block back into its source text.
func (c *mdConverter) literal(n ast.Node) Block {
	var lines []string
	switch node := n.(type) {
	case *ast.ThematicBreak:
		lines = []string{"---"}
	case *ast.Heading:
		lines = []string{strings.Repeat("#", node.Level) + " " + PlainText(c.inlines(n))}
	case *ast.FencedCodeBlock:
		fence := "```"
		if node.Info != nil {
			fence += string(node.Info.Segment.Value(c.src))
		}
		lines = append(lines, fence)
		lines = append(lines, c.lines(n)...)
		lines = append(lines, "```")
	default:
		lines = c.lines(n)
	}

	var inlines []Inline
	for i, line := range lines {
		if i > 0 {
			inlines = append(inlines, Inline{Kind: Break})
		}
		inlines = append(inlines, textInline(line))
	}
	return Block{Kind: Paragraph, Inlines: inlines}
}

func (c *mdConverter) lines(n ast.Node) []string {
	segs := n.Lines()
	if segs == nil {
		return nil
	}
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(c.src)), "\r\n"))
	}
	return out
}

// inlines converts the children of n. Raw <u> and </u> tags are paired up
// into underline nodes; an unmatched tag stays literal.
func (c *mdConverter) inlines(n ast.Node) []Inline {
	stack := [][]Inline{nil}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		raw, ok := child.(*ast.RawHTML)
		if !ok {
			top := len(stack) - 1
			stack[top] = append(stack[top], c.inline(child)...)
			continue
		}

		tag := c.segments(raw.Segments)
		switch strings.ToLower(strings.ReplaceAll(tag, " ", "")) {
		case "<u>":
			stack = append(stack, nil)
		case "</u>":
			if len(stack) == 1 {
				stack[0] = append(stack[0], textInline(tag))
				continue
			}
			inner := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top := len(stack) - 1
			stack[top] = append(stack[top], Inline{Kind: Underline, Children: inner})
		case "<br>", "<br/>":
			top := len(stack) - 1
			stack[top] = append(stack[top], Inline{Kind: Break})
		default:
			top := len(stack) - 1
			stack[top] = append(stack[top], textInline(tag))
		}
	}

	for len(stack) > 1 {
		inner := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top := len(stack) - 1
		stack[top] = append(stack[top], textInline("<u>"))
		stack[top] = append(stack[top], inner...)
	}
	return stack[0]
}

func (c *mdConverter) inline(n ast.Node) []Inline {
	switch node := n.(type) {
	case *ast.Text:
		out := []Inline{textInline(unescape(node.Segment.Value(c.src)))}
		if node.SoftLineBreak() || node.HardLineBreak() {
			out = append(out, Inline{Kind: Break})
		}
		return out
	case *ast.String:
		return []Inline{textInline(unescape(node.Value))}
	case *ast.Emphasis:
		kind := Italic
		if node.Level >= 2 {
			kind = Bold
		}
		return []Inline{{Kind: kind, Children: c.inlines(n)}}
	case *extast.Strikethrough:
		return []Inline{{Kind: Strike, Children: c.inlines(n)}}
	case *ast.CodeSpan:
		var buf bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch t := child.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(c.src))
			case *ast.String:
				buf.Write(t.Value)
			}
		}
		return []Inline{{Kind: Code, Text: strings.ReplaceAll(buf.String(), "\n", " ")}}
	case *ast.Link:
		return []Inline{{Kind: Link, URL: unescape(node.Destination), Children: c.inlines(n)}}
	case *ast.AutoLink:
		return []Inline{{
			Kind:     Link,
			URL:      string(node.URL(c.src)),
			Children: []Inline{textInline(string(node.Label(c.src)))},
		}}
	case *ast.Image:
		alt := PlainText(c.inlines(n))
		return []Inline{textInline("![" + alt + "](" + string(node.Destination) + ")")}
	case *extast.TaskCheckBox:
		return nil
	default:
		return c.inlines(n)
	}
}

func (c *mdConverter) segments(segs *text.Segments) string {
	if segs == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(c.src))
	}
	return buf.String()
}

func unescape(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func trimLeadingSpace(in []Inline) []Inline {
	if len(in) > 0 && in[0].Kind == Text {
		in[0].Text = strings.TrimLeft(in[0].Text, " \t")
	}
	return in
}
