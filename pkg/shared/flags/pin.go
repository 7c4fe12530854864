package flags

import (
	"github.com/spf13/cobra"
)

func AddPin(cmd *cobra.Command) {
	cmd.Flags().BoolP("pin", "p", false, "Pin the note")
}

func HandlePin(cmd *cobra.Command) bool {
	pinFlag, _ := cmd.Flags().GetBool("pin")
	return pinFlag
}

func AddYes(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

func HandleYes(cmd *cobra.Command) bool {
	yes, _ := cmd.Flags().GetBool("yes")
	return yes
}
