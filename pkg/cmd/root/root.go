package root

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/constants"
	"github.com/Paintersrp/dash/internal/guard"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/cmd/auth"
	"github.com/Paintersrp/dash/pkg/cmd/mockserver"
	"github.com/Paintersrp/dash/pkg/cmd/notes"
	"github.com/Paintersrp/dash/pkg/cmd/profile"
	"github.com/Paintersrp/dash/pkg/cmd/settings"
	"github.com/Paintersrp/dash/pkg/cmd/tasks"
	"github.com/Paintersrp/dash/pkg/cmd/todos"
)

// RedirectError is returned when a command's route is not available with
// the stored tokens.
type RedirectError struct {
	Route    string
	Redirect string
}

func (e *RedirectError) Error() string {
	if e.Redirect == constants.RouteDashboard {
		return "You are already logged in. Run `dash auth logout` first to switch accounts."
	}
	return fmt.Sprintf("You need to log in to use %s. Run `dash auth login`.", e.Route)
}

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Notes, tasks and todos from the terminal.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			A terminal client for the dashboard: write block-based notes,
			track tasks and keep a todo list. Changes show up immediately
			and are rolled back if the server rejects them.

			  dash auth login
			  dash notes new "Reading" "books" "Start with the classics"
			  dash todos add buy milk --due today
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkRoute(cmd, s)
		},
	}

	cmd.AddCommand(
		auth.NewCmdAuth(s),
		notes.NewCmdNotes(s),
		tasks.NewCmdTasks(s),
		todos.NewCmdTodos(s),
		profile.NewCmdProfile(s),
		settings.NewCmdSettings(s.Config),
		mockserver.NewCmdMockServer(s),
	)

	return cmd, nil
}

// route is the nearest route annotation on cmd or its parents.
func route(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if r := c.Annotations[constants.RouteAnnotation]; r != "" {
			return r
		}
	}
	return constants.RouteRoot
}

func checkRoute(cmd *cobra.Command, s *state.State) error {
	r := route(cmd)
	access, _ := s.Credentials.Access()
	refresh, _ := s.Credentials.Refresh()

	d := guard.Check(r, access, refresh)
	if d.Allow {
		return nil
	}
	s.Log.Debug().Str("route", r).Str("redirect", d.Redirect).Msg("route guarded")
	return &RedirectError{Route: r, Redirect: d.Redirect}
}
