package reset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	authsvc "github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

func NewCmdForgot(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "forgot <email>",
		Short:       "Request a password reset code",
		Example:     heredoc.Doc(`dash auth forgot me@example.com`),
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if err := s.Auth.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"If %s has an account, a reset code is on its way. Run `dash auth reset %s <code>`.\n", email, email)
			return nil
		},
	}

	return cmd
}

func NewCmdReset(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <email> <code>",
		Short: "Set a new password with a reset code",
		Long: heredoc.Doc(`
			Set a new password using the code from the forgot command. The new
			password is prompted for twice without echo.
		`),
		Example:     heredoc.Doc(`dash auth reset me@example.com 123456`),
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			r := prompt.NewReader(cmd.InOrStdin())
			password, err := r.Password(out, "New password: ")
			if err != nil {
				return err
			}
			confirm, err := r.Password(out, "Confirm password: ")
			if err != nil {
				return err
			}
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			req := authsvc.ResetPasswordRequest{
				Email:       strings.TrimSpace(args[0]),
				OTP:         strings.TrimSpace(args[1]),
				NewPassword: password,
			}
			if err := s.Auth.ResetPassword(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(out, "Password updated. You can now log in.")
			return nil
		},
	}

	return cmd
}
