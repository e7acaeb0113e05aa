// internal/cli/history.go
package matscope

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/formatter"
)

var historySearch string

var historyCmd = &cobra.Command{
	Use:   "history TYPE",
	Short: "List past analyses of one type",
	Long: `Fetch the analysis history of TYPE from the service and print it.

--search keeps only entries whose AI summary contains the text, ignoring case.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"xrd", "ir", "bet", "tga", "combined"},
	RunE:      runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "filter entries by AI summary text")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	t, err := analysis.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg := getConfig()
	if !formatter.ValidFormat(cfg.Output) {
		return fmt.Errorf("invalid output %q: expected human, json or yaml", cfg.Output)
	}

	controller := newController(cfg, nil)
	indicator := newIndicator()
	if indicator != nil {
		indicator.Show(fmt.Sprintf("Fetching %s history...", t.HistoryLabel()))
	}
	err = controller.ToggleHistory(commandContext(cmd), t)
	if indicator != nil {
		indicator.Hide()
	}
	if err != nil {
		return errors.New(controller.History().Panel(t).Err)
	}

	if historySearch != "" {
		controller.FilterHistory(t, historySearch)
	}
	return formatter.DisplayHistory(cmd.OutOrStdout(), controller.History().Panel(t), cfg.Output)
}
