// Package format toggles inline markdown syntax around a text selection.
package format

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	Bold Kind = iota + 1
	Italic
	Underline
	Strikethrough
	Code
)

var (
	ErrUnknownKind  = errors.New("unknown format kind")
	ErrInvalidRange = errors.New("selection is out of range")
)

type marker struct {
	open, close string
}

var markers = map[Kind]marker{
	Bold:          {"**", "**"},
	Italic:        {"_", "_"},
	Underline:     {"<u>", "</u>"},
	Strikethrough: {"~~", "~~"},
	Code:          {"`", "`"},
}

var kindNames = map[string]Kind{
	"bold":          Bold,
	"italic":        Italic,
	"underline":     Underline,
	"strikethrough": Strikethrough,
	"strike":        Strikethrough,
	"code":          Code,
}

func (k Kind) String() string {
	switch k {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Underline:
		return "underline"
	case Strikethrough:
		return "strikethrough"
	case Code:
		return "code"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(name string) (Kind, error) {
	if k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Result is the content after formatting together with the selection the
// caller should restore. Offsets are byte offsets into Content.
type Result struct {
	Content string
	Start   int
	End     int
}

// Selection wraps content[start:end] in the markers for kind, or unwraps it
// when the selection already carries them. A wrapped selection covers the
// markers so a second call toggles the formatting back off.
func Selection(content string, start, end int, kind Kind) (Result, error) {
	m, ok := markers[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	if start < 0 || end < start || end > len(content) {
		return Result{}, fmt.Errorf("%w: [%d,%d) of %d", ErrInvalidRange, start, end, len(content))
	}

	before, selected, after := content[:start], content[start:end], content[end:]

	if isWrapped(selected, kind) {
		inner := unwrap(selected, kind)
		return Result{
			Content: before + inner + after,
			Start:   start,
			End:     start + len(inner),
		}, nil
	}

	wrapped := m.open + selected + m.close
	return Result{
		Content: before + wrapped + after,
		Start:   start,
		End:     start + len(wrapped),
	}, nil
}

func isWrapped(text string, kind Kind) bool {
	switch kind {
	case Bold:
		return enclosed(text, "**", "**", "")
	case Italic:
		return enclosed(text, "_", "_", "_") || enclosed(text, "*", "*", "*")
	case Underline:
		return enclosed(text, "<u>", "</u>", "")
	case Strikethrough:
		return enclosed(text, "~~", "~~", "")
	case Code:
		return enclosed(text, "`", "`", "`")
	}
	return false
}

// enclosed reports whether text is opening+inner+closing. A non-empty inner may
// not start with reject, so "**b**" is bold rather than italic. An empty
// inner always counts, so toggling an empty selection twice restores it.
func enclosed(text, opening, closing, reject string) bool {
	if len(text) < len(opening)+len(closing) || !strings.HasPrefix(text, opening) || !strings.HasSuffix(text, closing) {
		return false
	}
	inner := text[len(opening) : len(text)-len(closing)]
	return inner == "" || reject == "" || !strings.HasPrefix(inner, reject)
}

func unwrap(text string, kind Kind) string {
	switch kind {
	case Bold, Strikethrough:
		return text[2 : len(text)-2]
	case Italic, Code:
		return text[1 : len(text)-1]
	case Underline:
		return text[3 : len(text)-4]
	}
	return text
}
