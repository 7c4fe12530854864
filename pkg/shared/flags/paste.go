package flags

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var readClipboard = clipboard.ReadAll

func AddPaste(cmd *cobra.Command) {
	cmd.Flags().
		Bool("paste", false, "Use clipboard contents as the block content.")
}

func HandlePaste(cmd *cobra.Command) (bool, error) {
	return cmd.Flags().GetBool("paste")
}

// Content returns the clipboard contents when --paste is set, otherwise
// fallback.
func Content(cmd *cobra.Command, fallback string) (string, error) {
	paste, err := HandlePaste(cmd)
	if err != nil || !paste {
		return fallback, err
	}

	content, err := readClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return content, nil
}

func AddCopy(cmd *cobra.Command) {
	cmd.Flags().Bool("copy", false, "Copy the output to the clipboard.")
}

var writeClipboard = clipboard.WriteAll

// HandleCopy copies text to the clipboard when --copy is set and reports
// whether it did.
func HandleCopy(cmd *cobra.Command, text string) (bool, error) {
	copyFlag, err := cmd.Flags().GetBool("copy")
	if err != nil || !copyFlag {
		return false, err
	}
	if err := writeClipboard(text); err != nil {
		return false, fmt.Errorf("failed to write clipboard: %w", err)
	}
	return true, nil
}
