package login

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	authsvc "github.com/Paintersrp/dash/internal/services/auth"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/internal/tui/auth"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

func NewCmdLogin(s *state.State) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:     "login",
		Aliases: []string{"l"},
		Short:   "Log in to your account",
		Long: heredoc.Doc(`
			Log in to your account with your email and password.
			Upon successful login the token pair is stored in the cookie jar
			next to your config file.
		`),
		Example: heredoc.Doc(`
			dash auth login
			dash auth login --email me@example.com
		`),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteLogin},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if email == "" {
				if err := auth.Login(ctx, s.Auth); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged in.")
				return nil
			}

			password, err := prompt.NewReader(cmd.InOrStdin()).Password(cmd.OutOrStdout(), "Password: ")
			if err != nil {
				return err
			}
			resp, err := s.Auth.Login(ctx, authsvc.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Log in without the form, prompting only for the password")

	return cmd
}
