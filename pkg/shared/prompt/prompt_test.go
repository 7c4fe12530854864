package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "hello\n", want: "hello"},
		{in: "crlf\r\n", want: "crlf"},
		{in: "no newline", want: "no newline"},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Line(&out, strings.NewReader(tt.in), "Code: ")
		if tt.wantErr {
			if err == nil {
				t.Errorf("Line(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Line(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if out.String() != "Code: " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestReaderKeepsBufferedInputBetweenPrompts(t *testing.T) {
	var out bytes.Buffer
	r := NewReader(strings.NewReader("secret1\nsecret1\nyes\n"))

	first, err := r.Password(&out, "New password: ")
	if err != nil || first != "secret1" {
		t.Fatalf("first Password = %q, %v", first, err)
	}
	second, err := r.Password(&out, "Confirm password: ")
	if err != nil || second != "secret1" {
		t.Fatalf("second Password = %q, %v", second, err)
	}
	if line, err := r.Line(&out, "Sure? "); err != nil || line != "yes" {
		t.Fatalf("Line = %q, %v", line, err)
	}
	if _, err := r.Line(&out, "More? "); err == nil {
		t.Fatalf("expected an error once input is exhausted")
	}
	if out.String() != "New password: Confirm password: Sure? More? " {
		t.Fatalf("prompts = %q", out.String())
	}
}
