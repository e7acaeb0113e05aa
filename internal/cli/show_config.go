// internal/cli/show_config.go
package matscope

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/appconfig"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), configFileUsed, getConfig(), appconfig.Defaults())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
