package settings

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/pkg/shared/output"
)

func NewCmdSettings(c *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s", "config"},
		Short:   "Show or change CLI settings",
		Long: heredoc.Doc(`
			Show the active configuration, or change the API address and
			environment stored in the config file. Values from DASH_*
			environment variables take precedence when the file is loaded.
		`),
		Example: heredoc.Doc(`
			dash settings
			dash settings url http://localhost:9000/api/v1
			dash settings env production
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			avatar := c.Avatar.Bucket
			if avatar == "" {
				avatar = "(not configured)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.Table([]string{"Setting", "Value"}, [][]string{
				{"Config file", c.Path()},
				{"API base URL", c.APIBaseURL},
				{"Environment", c.Environment},
				{"Timeout", c.RequestTimeout().String()},
				{"Log level", c.LogLevel},
				{"Avatar bucket", avatar},
			}))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "url <base-url>",
			Short: "Change the API base URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.ChangeBaseURL(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API base URL set to %s.\n", c.APIBaseURL)
				return nil
			},
		},
		&cobra.Command{
			Use:       "env <development|production|test>",
			Short:     "Change the environment",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"development", "production", "test"},
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.ChangeEnvironment(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Environment set to %s.\n", c.Environment)
				return nil
			},
		},
	)

	return cmd
}
