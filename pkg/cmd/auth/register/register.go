package register

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/internal/tui/auth"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

func NewCmdRegister(s *state.State) *cobra.Command {
	var email, username string

	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"r"},
		Short:   "Register a new account",
		Long: heredoc.Doc(`
			Create an account. A one-time code is sent to the email address;
			confirm it with the verify command before logging in.

			With --email the form is skipped and only the password is prompted
			for, twice. The username defaults to the part of the email before @.
		`),
		Example: heredoc.Doc(`
			dash auth register
			dash auth register --email me@example.com --username me
		`),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteRegister},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if email == "" {
				var err error
				if email, err = auth.Register(ctx, s.Auth); err != nil {
					return err
				}
			} else {
				if username == "" {
					username, _, _ = strings.Cut(email, "@")
				}
				r := prompt.NewReader(cmd.InOrStdin())
				password, err := r.Password(out, "Password: ")
				if err != nil {
					return err
				}
				confirm, err := r.Password(out, "Confirm password: ")
				if err != nil {
					return err
				}
				submit := auth.RegisterSubmit(ctx, s.Auth)
				if err := submit([]string{username, email, password, confirm}); err != nil {
					return err
				}
			}

			fmt.Fprintf(out,
				"Account created. Check %s for your code and run `dash auth verify %s`.\n", email, email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Register without the form, prompting only for the password")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to register with --email")

	return cmd
}
