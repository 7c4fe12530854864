package auth

import (
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/cmd/auth/login"
	"github.com/Paintersrp/dash/pkg/cmd/auth/logout"
	"github.com/Paintersrp/dash/pkg/cmd/auth/register"
	"github.com/Paintersrp/dash/pkg/cmd/auth/reset"
	"github.com/Paintersrp/dash/pkg/cmd/auth/status"
	"github.com/Paintersrp/dash/pkg/cmd/auth/verify"
)

func NewCmdAuth(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"a"},
		Short:   "Authenticate to the dashboard.",
	}

	cmd.AddCommand(register.NewCmdRegister(s))
	cmd.AddCommand(verify.NewCmdVerify(s))
	cmd.AddCommand(login.NewCmdLogin(s))
	cmd.AddCommand(logout.NewCmdLogout(s))
	cmd.AddCommand(reset.NewCmdForgot(s))
	cmd.AddCommand(reset.NewCmdReset(s))
	cmd.AddCommand(status.NewCmdStatus(s))

	return cmd
}
