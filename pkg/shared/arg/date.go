package arg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate reads a due date. Besides anything dateparse understands it
// accepts "today", "tomorrow" and "+Nd" relative to now. Dates without a
// time fall at the end of that day.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	day := func(offset int) time.Time {
		y, m, d := now.AddDate(0, 0, offset).Date()
		return time.Date(y, m, d, 23, 59, 0, 0, now.Location())
	}

	switch {
	case input == "":
		return time.Time{}, fmt.Errorf("empty date")
	case input == "today":
		return day(0), nil
	case input == "tomorrow":
		return day(1), nil
	case strings.HasPrefix(input, "+") && strings.HasSuffix(input, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(input, "+"), "d"))
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid relative date %q", input)
		}
		return day(n), nil
	}

	t, err := dateparse.ParseIn(input, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", input, err)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
	}
	return t, nil
}
