// internal/cli/followup.go
package matscope

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/formatter"
	"github.com/mwiater/matscope/internal/page"
)

var followUpPrevious string

var followUpCmd = &cobra.Command{
	Use:   "followup TYPE QUESTION",
	Short: "Ask a follow-up question about an analysis",
	Long: `Ask a follow-up question about a previous analysis of TYPE.

Pass the response saved with 'analyze --save' as --previous. Without it the
service receives no prior analysis.

Example:
  matscope analyze xrd --original a.csv --modified b.csv --save last.json
  matscope followup xrd "which peaks shifted most?" --previous last.json`,
	Args: cobra.ExactArgs(2),
	RunE: runFollowUp,
}

func init() {
	followUpCmd.Flags().StringVarP(&followUpPrevious, "previous", "p", "", "file holding the previous analysis response")
	rootCmd.AddCommand(followUpCmd)
}

func runFollowUp(cmd *cobra.Command, args []string) error {
	t, err := analysis.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg := getConfig()
	if !formatter.ValidFormat(cfg.Output) {
		return fmt.Errorf("invalid output %q: expected human, json or yaml", cfg.Output)
	}

	var previous *analysis.Result
	if followUpPrevious != "" {
		data, err := os.ReadFile(followUpPrevious)
		if err != nil {
			return fmt.Errorf("read previous analysis: %w", err)
		}
		if previous, err = analysis.DecodeResult(t, data); err != nil {
			return err
		}
	}

	controller := newController(cfg, newIndicator())
	answer, err := controller.FollowUpWith(commandContext(cmd), t, args[1], previous)
	if errors.Is(err, page.ErrEmptyQuestion) {
		return errors.New(page.EmptyQuestionPrompt)
	}
	if err != nil {
		return err
	}
	return formatter.DisplayFollowUp(cmd.OutOrStdout(), strings.TrimSpace(args[1]), answer, cfg.Output)
}
