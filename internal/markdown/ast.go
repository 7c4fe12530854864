// Package markdown converts the block editor's markdown subset to HTML and
// back. Both directions go through a small block AST so the two serializers
// agree on what each construct means.
package markdown

type BlockKind int

const (
	Paragraph BlockKind = iota + 1
	Heading
	BulletList
	OrderedList
	Blockquote
)

type InlineKind int

const (
	Text InlineKind = iota + 1
	Bold
	Italic
	Underline
	Strike
	Code
	Link
	Break
)

// Document is an ordered list of top level blocks.
type Document struct {
	Blocks []Block
}

type Block struct {
	Kind    BlockKind
	Level   int // heading level, 1..3
	Start   int // first number of an ordered list
	Inlines []Inline
	Items   []ListItem
}

type ListItem struct {
	Inlines []Inline
	Task    bool
	Checked bool
}

type Inline struct {
	Kind     InlineKind
	Text     string // Text and Code
	URL      string // Link
	Children []Inline
}

func textInline(s string) Inline {
	return Inline{Kind: Text, Text: s}
}

// normalize merges adjacent text runs and drops empty ones, leading and
// trailing breaks included.
func normalize(in []Inline) []Inline {
	out := make([]Inline, 0, len(in))
	for _, n := range in {
		switch n.Kind {
		case Text:
			if n.Text == "" {
				continue
			}
			if last := len(out) - 1; last >= 0 && out[last].Kind == Text {
				out[last].Text += n.Text
				continue
			}
		case Code:
			if n.Text == "" {
				continue
			}
		case Break:
			if len(out) == 0 {
				continue
			}
		default:
			n.Children = normalize(n.Children)
			if len(n.Children) == 0 && n.Kind != Link {
				continue
			}
		}
		out = append(out, n)
	}
	for len(out) > 0 && out[len(out)-1].Kind == Break {
		out = out[:len(out)-1]
	}
	return out
}

func (d Document) normalized() Document {
	blocks := make([]Block, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch b.Kind {
		case BulletList, OrderedList:
			items := make([]ListItem, 0, len(b.Items))
			for _, it := range b.Items {
				it.Inlines = normalize(it.Inlines)
				items = append(items, it)
			}
			if len(items) == 0 {
				continue
			}
			b.Items = items
		default:
			b.Inlines = normalize(b.Inlines)
			if len(b.Inlines) == 0 {
				continue
			}
		}
		blocks = append(blocks, b)
	}
	return Document{Blocks: blocks}
}

// PlainText flattens inline content, turning breaks into spaces.
func PlainText(in []Inline) string {
	var out []byte
	for _, n := range in {
		switch n.Kind {
		case Text, Code:
			out = append(out, n.Text...)
		case Break:
			out = append(out, ' ')
		default:
			out = append(out, PlainText(n.Children)...)
		}
	}
	return string(out)
}
