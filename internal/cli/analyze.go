// internal/cli/analyze.go
package matscope

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/charts"
	"github.com/mwiater/matscope/internal/formatter"
	"github.com/mwiater/matscope/internal/logging"
	"github.com/mwiater/matscope/internal/page"
	"github.com/mwiater/matscope/internal/report"
)

var (
	analyzeOriginal    string
	analyzeModified    string
	analyzeExplanation string
	analyzeQuery       string
	analyzeTGAFile     string
	analyzeCombined    analysis.CombinedFiles
	analyzeFollowUps   []string
	analyzeChartsDir   string
	analyzeHTML        string
	analyzeSave        string
)

// analyzeCmd submits one analysis and prints the result.
var analyzeCmd = &cobra.Command{
	Use:   "analyze TYPE",
	Short: "Submit measurement files for analysis",
	Long: `Submit measurement files to the analysis service and print the result.

TYPE is one of xrd, ir, bet, tga or combined.

Examples:
  # Compare two XRD scans
  matscope analyze xrd --original before.csv --modified after.csv --query "did the phase change?"

  # TGA with a follow-up question and PNG charts
  matscope analyze tga --tga-file run1.csv --followup "what is the onset temperature?" --charts out/

  # Combined analysis written as a standalone HTML report
  matscope analyze combined --original-xrd a.csv --modified-xrd b.csv --tga-file t.csv --html report.html`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"xrd", "ir", "bet", "tga", "combined"},
	RunE:      runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOriginal, "original", "", "original sample file (xrd, ir, bet)")
	f.StringVar(&analyzeModified, "modified", "", "modified sample file (xrd, ir, bet)")
	f.StringVar(&analyzeExplanation, "explanation", "", "description of the modification (xrd, ir, bet)")
	f.StringVarP(&analyzeQuery, "query", "q", "", "question for the AI commentary")
	f.StringVar(&analyzeTGAFile, "tga-file", "", "TGA file (tga, combined)")
	f.StringVar(&analyzeCombined.OriginalXRD, "original-xrd", "", "original XRD file (combined)")
	f.StringVar(&analyzeCombined.ModifiedXRD, "modified-xrd", "", "modified XRD file (combined)")
	f.StringVar(&analyzeCombined.OriginalIR, "original-ir", "", "original IR file (combined)")
	f.StringVar(&analyzeCombined.ModifiedIR, "modified-ir", "", "modified IR file (combined)")
	f.StringVar(&analyzeCombined.OriginalBET, "original-bet", "", "original BET file (combined)")
	f.StringVar(&analyzeCombined.ModifiedBET, "modified-bet", "", "modified BET file (combined)")
	f.StringArrayVar(&analyzeFollowUps, "followup", nil, "follow-up question to ask after the analysis (repeatable)")
	f.StringVar(&analyzeChartsDir, "charts", "", "directory to write PNG charts into")
	f.StringVar(&analyzeHTML, "html", "", "write a standalone HTML report to this file")
	f.StringVar(&analyzeSave, "save", "", "write the raw service response to this file (for followup --previous)")
	rootCmd.AddCommand(analyzeCmd)
}

// buildForm assembles the multipart form for t from the flags.
func buildForm(t analysis.Type) analysis.Form {
	switch t {
	case analysis.TGA:
		return analysis.NewTGAForm(analyzeTGAFile, analyzeQuery)
	case analysis.Combined:
		files := analyzeCombined
		files.TGA = analyzeTGAFile
		return analysis.NewCombinedForm(files, analyzeQuery)
	case analysis.IR:
		return analysis.NewIRForm(analyzeOriginal, analyzeModified, analyzeExplanation, analyzeQuery)
	case analysis.BET:
		return analysis.NewBETForm(analyzeOriginal, analyzeModified, analyzeExplanation, analyzeQuery)
	default:
		return analysis.NewXRDForm(analyzeOriginal, analyzeModified, analyzeExplanation, analyzeQuery)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	t, err := analysis.ParseType(args[0])
	if err != nil {
		return err
	}
	cfg := getConfig()
	if !formatter.ValidFormat(cfg.Output) {
		return fmt.Errorf("invalid output %q: expected human, json or yaml", cfg.Output)
	}

	ctx := commandContext(cmd)
	controller := newController(cfg, newIndicator())

	result, err := controller.SubmitAnalysis(ctx, t, buildForm(t))
	if err != nil {
		return err
	}
	if cfg.Debug {
		pp.Fprintln(cmd.ErrOrStderr(), result)
	}

	if analyzeSave != "" {
		if err := os.WriteFile(analyzeSave, result.Raw, 0o644); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}

	for _, question := range analyzeFollowUps {
		if strings.TrimSpace(question) == "" {
			continue
		}
		if _, err := controller.SubmitFollowUp(ctx, t, question); err != nil {
			return err
		}
	}

	section := controller.Section(t)

	if analyzeChartsDir != "" {
		width, height := cfg.ChartSize()
		paths, err := writeCharts(analyzeChartsDir, section, charts.PNGRenderer{Width: width, Height: height})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote chart: %s\n", p)
		}
	}

	if analyzeHTML != "" {
		if err := writeReport(analyzeHTML, controller, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote report: %s\n", analyzeHTML)
	}

	return formatter.DisplayAnalysis(cmd.OutOrStdout(), section, cfg.Output)
}

// writeReport renders the section of t, with its history panel, as a
// standalone HTML page.
func writeReport(path string, controller *page.Controller, t analysis.Type) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Standalone(f, "", controller, t); err != nil {
		f.Close()
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

// writeCharts renders every visible chart of s as <type>-<surface>.png in
// dir. Charts with no points are skipped.
func writeCharts(dir string, s page.Section, r charts.PNGRenderer) ([]string, error) {
	if s.Plots == nil {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	var written []string
	for _, id := range s.Plots.Visible() {
		content, ok := s.Plots.Get(id)
		if !ok || content.Chart == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", s.Type, id))
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("create chart: %w", err)
		}
		err = r.Render(f, content.Chart)
		closeErr := f.Close()
		if errors.Is(err, charts.ErrNoPoints) {
			_ = os.Remove(path)
			logging.LogEvent("skipped empty chart %s", path)
			continue
		}
		if err != nil {
			_ = os.Remove(path)
			return written, fmt.Errorf("render %s: %w", id, err)
		}
		if closeErr != nil {
			return written, closeErr
		}
		written = append(written, path)
	}
	return written, nil
}
