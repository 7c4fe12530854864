package markdown

import (
	"fmt"
	stdhtml "html"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes the document as editor HTML.
func RenderHTML(doc Document) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case Heading:
			fmt.Fprintf(&b, "<h%d>", blk.Level)
			writeInlinesHTML(&b, blk.Inlines)
			fmt.Fprintf(&b, "</h%d>", blk.Level)
		case Blockquote:
			b.WriteString("<blockquote>")
			writeInlinesHTML(&b, blk.Inlines)
			b.WriteString("</blockquote>")
		case BulletList:
			if allTasks(blk.Items) {
				b.WriteString(`<ul data-type="taskList">`)
			} else {
				b.WriteString("<ul>")
			}
			writeItemsHTML(&b, blk.Items)
			b.WriteString("</ul>")
		case OrderedList:
			if blk.Start > 1 {
				fmt.Fprintf(&b, `<ol start="%d">`, blk.Start)
			} else {
				b.WriteString("<ol>")
			}
			writeItemsHTML(&b, blk.Items)
			b.WriteString("</ol>")
		default:
			b.WriteString("<p>")
			writeInlinesHTML(&b, blk.Inlines)
			b.WriteString("</p>")
		}
	}
	return b.String()
}

func allTasks(items []ListItem) bool {
	for _, it := range items {
		if !it.Task {
			return false
		}
	}
	return len(items) > 0
}

func writeItemsHTML(b *strings.Builder, items []ListItem) {
	for _, it := range items {
		if it.Task {
			fmt.Fprintf(b, `<li data-type="taskItem" data-checked="%t">`, it.Checked)
		} else {
			b.WriteString("<li>")
		}
		writeInlinesHTML(b, it.Inlines)
		b.WriteString("</li>")
	}
}

var inlineTags = map[InlineKind]string{
	Bold:      "strong",
	Italic:    "em",
	Underline: "u",
	Strike:    "s",
}

func writeInlinesHTML(b *strings.Builder, in []Inline) {
	for _, n := range in {
		switch n.Kind {
		case Text:
			b.WriteString(stdhtml.EscapeString(n.Text))
		case Code:
			b.WriteString("<code>")
			b.WriteString(stdhtml.EscapeString(n.Text))
			b.WriteString("</code>")
		case Break:
			b.WriteString("<br>")
		case Link:
			fmt.Fprintf(b, `<a href="%s">`, stdhtml.EscapeString(n.URL))
			writeInlinesHTML(b, n.Children)
			b.WriteString("</a>")
		default:
			tag := inlineTags[n.Kind]
			b.WriteString("<" + tag + ">")
			writeInlinesHTML(b, n.Children)
			b.WriteString("</" + tag + ">")
		}
	}
}

// ParseHTML reads editor HTML into a document. Unknown elements contribute
// their text content.
func ParseHTML(source string) (Document, error) {
	if strings.TrimSpace(source) == "" {
		return Document{}, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(source), body)
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}

	var doc Document
	var loose []Inline
	flush := func() {
		if len(loose) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Kind: Paragraph, Inlines: loose})
			loose = nil
		}
	}
	for _, n := range nodes {
		blocks, ok := htmlBlock(n)
		if !ok {
			loose = append(loose, htmlInline(n)...)
			continue
		}
		flush()
		doc.Blocks = append(doc.Blocks, blocks...)
	}
	flush()
	return doc.normalized(), nil
}

// htmlBlock reports false when n is inline content.
func htmlBlock(n *html.Node) ([]Block, bool) {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return nil, true
	}
	if n.Type != html.ElementNode {
		return nil, false
	}

	switch n.DataAtom {
	case atom.P:
		return []Block{{Kind: Paragraph, Inlines: htmlChildren(n)}}, true
	case atom.H1, atom.H2, atom.H3:
		level := int(n.Data[1] - '0')
		return []Block{{Kind: Heading, Level: level, Inlines: htmlChildren(n)}}, true
	case atom.H4, atom.H5, atom.H6:
		return []Block{{Kind: Paragraph, Inlines: htmlChildren(n)}}, true
	case atom.Blockquote:
		return []Block{{Kind: Blockquote, Inlines: htmlChildren(n)}}, true
	case atom.Ul:
		return []Block{{Kind: BulletList, Items: htmlItems(n)}}, true
	case atom.Ol:
		start := 1
		if v, err := strconv.Atoi(attr(n, "start")); err == nil && v > 0 {
			start = v
		}
		return []Block{{Kind: OrderedList, Start: start, Items: htmlItems(n)}}, true
	case atom.Div, atom.Section, atom.Article:
		var out []Block
		var loose []Inline
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			blocks, ok := htmlBlock(c)
			if !ok {
				loose = append(loose, htmlInline(c)...)
				continue
			}
			if len(loose) > 0 {
				out = append(out, Block{Kind: Paragraph, Inlines: loose})
				loose = nil
			}
			out = append(out, blocks...)
		}
		if len(loose) > 0 {
			out = append(out, Block{Kind: Paragraph, Inlines: loose})
		}
		return out, true
	case atom.Hr:
		return []Block{{Kind: Paragraph, Inlines: []Inline{textInline("---")}}}, true
	case atom.Pre:
		return []Block{{Kind: Paragraph, Inlines: []Inline{{Kind: Code, Text: textContent(n)}}}}, true
	}
	return nil, false
}

func htmlItems(list *html.Node) []ListItem {
	var items []ListItem
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		item := ListItem{Inlines: htmlChildren(li)}
		if attr(li, "data-type") == "taskItem" {
			item.Task = true
			item.Checked = attr(li, "data-checked") == "true"
		}
		items = append(items, item)
	}
	return items
}

func htmlChildren(n *html.Node) []Inline {
	var out []Inline
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInline(c)...)
	}
	return out
}

func htmlInline(n *html.Node) []Inline {
	switch n.Type {
	case html.TextNode:
		return []Inline{textInline(strings.NewReplacer("\r\n", " ", "\n", " ").Replace(n.Data))}
	case html.ElementNode:
	default:
		return nil
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		return []Inline{{Kind: Bold, Children: htmlChildren(n)}}
	case atom.Em, atom.I:
		return []Inline{{Kind: Italic, Children: htmlChildren(n)}}
	case atom.U:
		return []Inline{{Kind: Underline, Children: htmlChildren(n)}}
	case atom.S, atom.Strike, atom.Del:
		return []Inline{{Kind: Strike, Children: htmlChildren(n)}}
	case atom.Code:
		return []Inline{{Kind: Code, Text: textContent(n)}}
	case atom.A:
		return []Inline{{Kind: Link, URL: attr(n, "href"), Children: htmlChildren(n)}}
	case atom.Br:
		return []Inline{{Kind: Break}}
	case atom.Input, atom.Script, atom.Style:
		return nil
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		// nested block content, e.g. <li><p>..</p></li>
		return append([]Inline{{Kind: Break}}, htmlChildren(n)...)
	}
	return htmlChildren(n)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
