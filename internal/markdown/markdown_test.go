package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "  \n\n ", ""},
		{"bold", "**bold**", "<p><strong>bold</strong></p>"},
		{"heading", "# Title", "<h1>Title</h1>"},
		{"subheading", "### Third", "<h3>Third</h3>"},
		{"italic", "*it* and _it_", "<p><em>it</em> and <em>it</em></p>"},
		{"underline", "<u>under</u>", "<p><u>under</u></p>"},
		{"strike", "~~gone~~", "<p><s>gone</s></p>"},
		{"code", "`x := 1`", "<p><code>x := 1</code></p>"},
		{"link", "[site](https://example.com)", `<p><a href="https://example.com">site</a></p>`},
		{"bullets", "* a\n* b", "<ul><li>a</li><li>b</li></ul>"},
		{"dash bullets", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"ordered start", "3. c", `<ol start="3"><li>c</li></ol>`},
		{"quote", "> q", "<blockquote>q</blockquote>"},
		{"line break", "a\nb", "<p>a<br>b</p>"},
		{"paragraphs", "a\n\nb", "<p>a</p><p>b</p>"},
		{
			"tasks",
			"- [ ] a\n- [x] b",
			`<ul data-type="taskList"><li data-type="taskItem" data-checked="false">a</li><li data-type="taskItem" data-checked="true">b</li></ul>`,
		},
		{"unterminated bold", "**bold", "<p>**bold</p>"},
		{"unmatched underline", "<u>open", "<p>&lt;u&gt;open</p>"},
		{"escaped text", "a < b & c", "<p>a &lt; b &amp; c</p>"},
		{"fenced code stays literal", "```\nx\n```", "<p>```<br>x<br>```</p>"},
		{"deep heading stays literal", "#### four", "<p>#### four</p>"},
		{"nested list is flattened", "* a\n  * nested", "<ul><li>a</li><li>nested</li></ul>"},
		{"heading in quote keeps text only", "> # h", "<blockquote>h</blockquote>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTML(tt.in); got != tt.want {
				t.Fatalf("ToHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"heading", "<h1>Title</h1>", "# Title"},
		{"inline marks", "<p><strong>b</strong> and <em>i</em></p>", "**b** and *i*"},
		{"underline and strike", "<p><u>u</u> <s>s</s></p>", "<u>u</u> ~~s~~"},
		{"bullets", "<ul><li>a</li><li>b</li></ul>", "* a\n* b"},
		{"paragraphs", "<p>a</p><p>b</p>", "a\n\nb"},
		{"nested paragraph in item", "<ul><li><p>x</p></li></ul>", "* x"},
		{"ordered", "<ol><li>a</li><li>b</li></ol>", "1. a\n2. b"},
		{"quote", "<blockquote><p>q</p></blockquote>", "> q"},
		{"link", `<p><a href="https://example.com">site</a></p>`, "[site](https://example.com)"},
		{"break", "<p>a<br>b</p>", "a\nb"},
		{
			"tasks",
			`<ul data-type="taskList"><li data-type="taskItem" data-checked="false">a</li><li data-type="taskItem" data-checked="true">b</li></ul>`,
			"- [ ] a\n- [x] b",
		},
		{"literal markers are escaped", "<p>2 * 3 = 6</p>", `2 \* 3 = 6`},
		{"leading hash is escaped", "<p># not a heading</p>", `\# not a heading`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMarkdown(tt.in); got != tt.want {
				t.Fatalf("ToMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTripIsVisuallyStable(t *testing.T) {
	inputs := []string{
		"# Title",
		"## Sub *emphasis*",
		"**bold** and *italic* and _under_",
		"<u>underlined</u> text",
		"~~struck~~ `code` [link](https://example.com/a?b=c)",
		"* one\n* two\n* three",
		"1. first\n2. second",
		"> quoted\n> twice",
		"- [ ] open\n- [x] closed",
		"line one\nline two",
		"snake_case & <tag> stays literal",
		"**unterminated bold",
		"```go\nfmt.Println(1)\n```",
		"---",
		"#### deep heading",
		"a paragraph\n\n* then a list\n\n> then a quote",
		"***both***",
		"2019. a year",
	}

	for _, md := range inputs {
		first := ToHTML(md)
		second := ToHTML(ToMarkdown(first))
		if first != second {
			t.Errorf("round trip of %q changed output:\n first: %q\nsecond: %q", md, first, second)
		}
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"# Title\n\n**bold** and [link](https://example.com)", "Title bold and link"},
		{"* a\n* b", "a b"},
		{"`code`   and\n\n> quote", "code and quote"},
	}

	for _, tt := range tests {
		if got := Strip(tt.in); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("**hello** world", 5); got != "hello…" {
		t.Fatalf("Excerpt = %q", got)
	}
	if got := Excerpt("short", 10); got != "short" {
		t.Fatalf("Excerpt = %q", got)
	}
}

func TestRendererHighlightsAndAddsHeadingIDs(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("# Hello World\n\n```go\nfunc main() {}\n```\n"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.Contains(out, []byte(`id="hello-world"`)) {
		t.Fatalf("expected heading id, got %s", out)
	}
	if !bytes.Contains(out, []byte("chroma")) {
		t.Fatalf("expected highlighted code block, got %s", out)
	}

	page, err := r.RenderPage("Notes & more", []byte("text"))
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if !strings.Contains(string(page), "<title>Notes &amp; more</title>") {
		t.Fatalf("expected escaped title, got %s", page)
	}
	if !strings.Contains(string(page), ".chroma") {
		t.Fatalf("expected highlight stylesheet in page")
	}
}
