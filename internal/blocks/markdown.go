package blocks

import (
	"strings"
)

// Markdown flattens a note into a single markdown document: the title as a
// top-level heading followed by each block in position order.
func Markdown(n Note) string {
	var b strings.Builder
	if n.Title != "" {
		b.WriteString("# ")
		b.WriteString(n.Title)
		b.WriteString("\n\n")
	}

	sorted := NewCollection(n.ID, n.Blocks).Blocks()
	for _, blk := range sorted {
		switch blk.Type {
		case Heading:
			text := strings.TrimSpace(blk.Content)
			if !strings.HasPrefix(text, "#") {
				text = "## " + text
			}
			b.WriteString(text)
		case Todo:
			for i, item := range blk.Items {
				if i > 0 {
					b.WriteString("\n")
				}
				if item.Done {
					b.WriteString("- [x] ")
				} else {
					b.WriteString("- [ ] ")
				}
				b.WriteString(item.Text)
			}
		default:
			b.WriteString(strings.TrimSpace(blk.Content))
		}
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
