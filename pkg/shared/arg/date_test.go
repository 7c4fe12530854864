package arg

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "today", want: time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
		{in: "Tomorrow", want: time.Date(2024, 3, 11, 23, 59, 0, 0, time.UTC)},
		{in: "+3d", want: time.Date(2024, 3, 13, 23, 59, 0, 0, time.UTC)},
		{in: "2024-04-01", want: time.Date(2024, 4, 1, 23, 59, 0, 0, time.UTC)},
		{in: "2024-04-01 14:00", want: time.Date(2024, 4, 1, 14, 0, 0, 0, time.UTC)},
		{in: "+xd", wantErr: true},
		{in: "", wantErr: true},
		{in: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate returned error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
