package status

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/internal/tokens"
)

func NewCmdStatus(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"check"},
		Short:   "Show whether you are logged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			access, hasAccess := s.Credentials.Access()
			_, hasRefresh := s.Credentials.Refresh()

			switch {
			case hasAccess && tokens.AccessValid(access, time.Now()):
				fmt.Fprintf(out, "Logged in to %s.\n", s.Config.APIBaseURL)
			case hasAccess || hasRefresh:
				fmt.Fprintf(out, "Logged in to %s. The access token will be refreshed on the next request.\n", s.Config.APIBaseURL)
			default:
				fmt.Fprintln(out, "Not logged in. Run `dash auth login`.")
			}
			return nil
		},
	}

	return cmd
}
