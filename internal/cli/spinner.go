// internal/cli/spinner.go
package matscope

import (
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/mwiater/matscope/internal/page"
)

// spinnerIndicator shows a terminal spinner on stderr while a request runs,
// keeping stdout clean for -o json and -o yaml.
type spinnerIndicator struct {
	s *spinner.Spinner
}

func newSpinnerIndicator() *spinnerIndicator {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	return &spinnerIndicator{s: s}
}

func (i *spinnerIndicator) Show(label string) {
	i.s.Suffix = " " + label
	i.s.Start()
}

func (i *spinnerIndicator) Hide() {
	i.s.Stop()
}

// newIndicator is swapped out by tests.
var newIndicator = func() page.LoadingIndicator { return newSpinnerIndicator() }
