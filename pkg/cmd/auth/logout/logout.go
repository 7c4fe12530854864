package logout

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/state"
)

func NewCmdLogout(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout of your account",
		Long: heredoc.Doc(`
			Revoke the refresh token on the server and remove the stored
			tokens. Local tokens are removed even when the server is unreachable.
		`),
		Example:     heredoc.Doc(`dash auth logout`),
		Annotations: map[string]string{constants.RouteAnnotation: constants.RouteDashboard},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out.")
			return nil
		},
	}

	return cmd
}
