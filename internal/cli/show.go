// internal/cli/show.go
package matscope

import (
	"github.com/spf13/cobra"
)

// showCmd groups commands that display local information.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information related to matscope.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
