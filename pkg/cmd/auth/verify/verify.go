package verify

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	authsvc "github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

func NewCmdVerify(s *state.State) *cobra.Command {
	var resend bool

	cmd := &cobra.Command{
		Use:   "verify <email> [code]",
		Short: "Verify your email with the one-time code",
		Long: heredoc.Doc(`
			Confirm a new account with the code sent by email. Without a code
			argument the code is read from stdin. Use --resend to request a
			new code.
		`),
		Example: heredoc.Doc(`
			dash auth verify me@example.com 123456
			dash auth verify me@example.com --resend
		`),
		Args:        cobra.RangeArgs(1, 2),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteVerify},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			email := strings.TrimSpace(args[0])

			if resend {
				if err := s.Auth.RequestOTP(ctx, email); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "A new code was sent to %s.\n", email)
				return nil
			}

			code := ""
			if len(args) == 2 {
				code = args[1]
			} else {
				var err error
				code, err = prompt.Line(cmd.OutOrStdout(), cmd.InOrStdin(), "Code: ")
				if err != nil {
					return err
				}
			}

			if err := s.Auth.VerifyOTP(ctx, authsvc.OTPRequest{Email: email, OTP: strings.TrimSpace(code)}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email verified. You can now log in.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&resend, "resend", false, "Send a new code instead of verifying")

	return cmd
}
