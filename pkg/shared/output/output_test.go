package output

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "exactly", n: 7, want: "exactly"},
		{in: "too long here", n: 5, want: "too …"},
		{in: "héllo wörld", n: 4, want: "hél…"},
		{in: "x", n: 0, want: "x"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestTableContainsCells(t *testing.T) {
	got := Table([]string{"ID", "Title"}, [][]string{{"abc", "First"}, {"def", "Second"}})
	for _, want := range []string{"ID", "Title", "abc", "First", "Second"} {
		if !strings.Contains(got, want) {
			t.Fatalf("table missing %q:\n%s", want, got)
		}
	}
	if ShortID("0123456789") != "01234567" {
		t.Fatalf("ShortID did not trim")
	}
}
