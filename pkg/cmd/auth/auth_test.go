package auth

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Paintersrp/dash/internal/mockapi/mockapitest"
	"github.com/Paintersrp/dash/internal/state"
)

func run(t *testing.T, s *state.State, stdin string, args ...string) (string, error) {
	t.Helper()

	c := NewCmdAuth(s)
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(append([]string{}, args...))
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAccountLifecycle(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, false)

	const email = "new@example.com"

	steps := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:  "register",
			stdin: "hunter22\nhunter22\n",
			args:  []string{"register", "--email", email},
			want:  "run `dash auth verify " + email + "`",
		},
		{
			name:    "register twice",
			stdin:   "hunter22\nhunter22\n",
			args:    []string{"register", "--email", email},
			wantErr: "already registered",
		},
		{
			name:    "login before verify",
			stdin:   "hunter22\n",
			args:    []string{"login", "--email", email},
			wantErr: "not verified",
		},
		{
			name:    "wrong code",
			args:    []string{"verify", email, "000000"},
			wantErr: "Invalid or expired code",
		},
		{
			name:  "resend code",
			args:  []string{"verify", email, "--resend"},
			want:  "A new code was sent",
		},
		{
			name:  "verify with code from stdin",
			stdin: mockapitest.OTP + "\n",
			args:  []string{"verify", email},
			want:  "Email verified",
		},
		{
			name:  "forgot",
			args:  []string{"forgot", email},
			want:  "dash auth reset " + email,
		},
		{
			name:    "reset mismatch",
			stdin:   "newpass1\nnewpass2\n",
			args:    []string{"reset", email, mockapitest.OTP},
			wantErr: "do not match",
		},
		{
			name:  "reset",
			stdin: "newpass1\nnewpass1\n",
			args:  []string{"reset", email, mockapitest.OTP},
			want:  "Password updated",
		},
		{
			name:    "old password rejected",
			stdin:   "hunter22\n",
			args:    []string{"login", "--email", email},
			wantErr: "Invalid email or password",
		},
		{
			name:  "login with new password",
			stdin: "newpass1\n",
			args:  []string{"login", "--email", email},
			want:  "Logged in as new",
		},
		{
			name: "status",
			args: []string{"status"},
			want: "Logged in to",
		},
	}

	for _, tt := range steps {
		out, err := run(t, s, tt.stdin, tt.args...)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v\n%s", tt.name, err, out)
		}
		if !strings.Contains(out, tt.want) {
			t.Fatalf("%s: output missing %q:\n%s", tt.name, tt.want, out)
		}
	}
}

func TestRegisterValidatesPasswords(t *testing.T) {
	env := mockapitest.New(t)
	s := env.State(t, io.Discard, false)

	tests := []struct {
		name    string
		stdin   string
		wantErr string
	}{
		{name: "too short", stdin: "abc\nabc\n", wantErr: "at least 6 characters"},
		{name: "mismatch", stdin: "abcdef\nabcdeg\n", wantErr: "do not match"},
		{name: "no input", stdin: "", wantErr: "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, s, tt.stdin, "register", "--email", "v@example.com")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
