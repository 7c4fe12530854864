package guard

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestCheck(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	live := signed(t, now.Add(time.Minute))
	expired := signed(t, now.Add(-time.Minute))

	tests := []struct {
		name    string
		path    string
		access  string
		refresh string
		want    Decision
	}{
		{"root always allowed", "/", "", "", Decision{Allow: true}},
		{"dashboard without tokens", "/dashboard/notes", "", "", Decision{Redirect: "/get-started?redirectTo=%2Fdashboard%2Fnotes"}},
		{"dashboard with refresh only", "/dashboard", "", "r", Decision{Allow: true}},
		{"dashboard with expired access", "/dashboard", expired, "", Decision{Allow: true}},
		{"login with live access", "/login", live, "", Decision{Redirect: "/dashboard"}},
		{"register with expired access", "/register", expired, "r", Decision{Allow: true}},
		{"get-started without tokens", "/get-started", "", "", Decision{Allow: true}},
		{"unlisted route", "/about", "", "", Decision{Allow: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := check(tt.path, tt.access, tt.refresh, now); got != tt.want {
				t.Fatalf("check(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}
