package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const highlightStyle = "github"

// Renderer produces full HTML previews. Unlike ToHTML it understands all of
// GFM and highlights fenced code.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					html.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
			gmhtml.WithUnsafe(),
		),
	)

	return &Renderer{md: md}
}

// Render converts markdown to an HTML fragment.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPage wraps the rendered fragment in a standalone page that carries
// the stylesheet for highlighted code.
func (r *Renderer) RenderPage(title string, source []byte) ([]byte, error) {
	body, err := r.Render(source)
	if err != nil {
		return nil, err
	}

	var css bytes.Buffer
	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(&css, styles.Get(highlightStyle)); err != nil {
		return nil, fmt.Errorf("write highlight css: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s</style>\n</head>\n<body>\n",
		stdhtml.EscapeString(title), css.String())
	page.Write(body)
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// RenderTerminal renders markdown for display in a terminal.
func RenderTerminal(source string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "", err
	}
	return r.Render(source)
}
