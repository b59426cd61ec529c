package display

import (
	"github.com/spf13/cobra"
)

// ShouldOutputJSON determines if a command should emit machine-readable
// output based on its own --json flag or the root persistent one.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	// Check if --json flag was explicitly set on the command itself
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Fall back to the global --json flag
	globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
	return globalFlag
}
