// internal/cli/browse.go
package matscope

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/tui"
)

// startBrowser is swapped out by tests.
var startBrowser = tui.Run

var browseCmd = &cobra.Command{
	Use:   "browse [TYPE]",
	Short: "Browse analysis history in an interactive terminal UI",
	Long: `Open a full-screen history browser. Tab switches between analysis types
and typing filters the entries by AI summary. TYPE picks the first tab (xrd by default).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := analysis.XRD
		if len(args) == 1 {
			t, err := analysis.ParseType(args[0])
			if err != nil {
				return err
			}
			start = t
		}
		return startBrowser(commandContext(cmd), newController(getConfig(), nil), start)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
