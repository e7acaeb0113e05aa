// internal/page/controller.go
// Package page is the view model shared by the command line, the terminal
// browser and the web UI. It dispatches analysis, follow-up and history
// requests and records what each surface should show as plain data.
package page

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/history"
	"github.com/mwiater/matscope/internal/logging"
	"github.com/mwiater/matscope/internal/markdown"
)

// EmptyQuestionPrompt is shown when a follow-up is submitted without text.
const EmptyQuestionPrompt = "Please enter a question."

// ErrEmptyQuestion is returned by follow-ups with a blank question. No
// request is made.
var ErrEmptyQuestion = errors.New("empty follow-up question")

// Service is the remote analysis API.
type Service interface {
	Analyze(ctx context.Context, t analysis.Type, form analysis.Form) (*analysis.Result, error)
	FollowUp(ctx context.Context, t analysis.Type, question string, previous json.RawMessage) (string, error)
	History(ctx context.Context, t analysis.Type) ([]analysis.HistoryRecord, error)
}

// LoadingIndicator is shown for the whole lifetime of a request.
type LoadingIndicator interface {
	Show(label string)
	Hide()
}

type noopIndicator struct{}

func (noopIndicator) Show(string) {}
func (noopIndicator) Hide()       {}

// Controller owns the session slots and the per-type view models.
type Controller struct {
	service Service
	loading LoadingIndicator
	session *Session
	history *history.Manager

	mu       sync.Mutex
	sections map[analysis.Type]*Section
}

// New returns a controller backed by service. A nil indicator disables
// loading feedback.
func New(service Service, loading LoadingIndicator) *Controller {
	if loading == nil {
		loading = noopIndicator{}
	}
	c := &Controller{
		service:  service,
		loading:  loading,
		session:  &Session{},
		history:  history.NewManager(service),
		sections: make(map[analysis.Type]*Section),
	}
	for _, t := range analysis.AllTypes() {
		c.sections[t] = newSection(t)
	}
	return c
}

// Session exposes the per-type result slots.
func (c *Controller) Session() *Session { return c.session }

// History exposes the history manager.
func (c *Controller) History() *history.Manager { return c.history }

// Section returns a snapshot of the view model for t.
func (c *Controller) Section(t analysis.Type) Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section(t).snapshot()
}

func (c *Controller) section(t analysis.Type) *Section {
	s, ok := c.sections[t]
	if !ok {
		s = newSection(t)
		c.sections[t] = s
	}
	return s
}

func (c *Controller) update(t analysis.Type, fn func(*Section)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.section(t))
}

func (c *Controller) begin(t analysis.Type, label string) {
	c.loading.Show(label)
	c.update(t, func(s *Section) { s.Loading = true })
}

func (c *Controller) end(t analysis.Type) {
	c.update(t, func(s *Section) { s.Loading = false })
	c.loading.Hide()
}

// SubmitAnalysis sends form to the service and fills the section of t with
// the outcome. On success the result also replaces the session slot of t.
func (c *Controller) SubmitAnalysis(ctx context.Context, t analysis.Type, form analysis.Form) (*analysis.Result, error) {
	c.begin(t, "Analyzing "+t.Label()+" data...")
	defer c.end(t)

	c.update(t, func(s *Section) {
		s.Error = ""
		s.ResultVisible = false
	})

	result, err := c.service.Analyze(ctx, t, form)
	if err != nil {
		logging.LogEvent("analysis type=%s failed: %v", t, err)
		c.update(t, func(s *Section) { s.Error = err.Error() })
		return nil, err
	}

	c.update(t, func(s *Section) { s.present(result) })
	c.session.Store(t, result)
	return result, nil
}

// SubmitFollowUp asks question about the last stored result of t and
// appends the answer to the section.
func (c *Controller) SubmitFollowUp(ctx context.Context, t analysis.Type, question string) (string, error) {
	return c.FollowUpWith(ctx, t, question, c.session.Last(t))
}

// FollowUpWith asks question about an explicitly supplied previous result.
// A nil previous result is sent as null and left to the service to reject.
func (c *Controller) FollowUpWith(ctx context.Context, t analysis.Type, question string, previous *analysis.Result) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		c.update(t, func(s *Section) { s.Prompt = EmptyQuestionPrompt })
		return "", ErrEmptyQuestion
	}

	c.begin(t, "Asking follow-up question...")
	defer c.end(t)

	c.update(t, func(s *Section) {
		s.Prompt = ""
		s.Error = ""
	})

	answer, err := c.service.FollowUp(ctx, t, question, previous.Previous())
	if err != nil {
		logging.LogEvent("follow-up type=%s failed: %v", t, err)
		c.update(t, func(s *Section) { s.Error = err.Error() })
		return "", err
	}

	c.update(t, func(s *Section) {
		s.FollowUps = append(s.FollowUps, FollowUp{Question: question, Answer: answer, HTML: markdown.ToHTML(answer)})
	})
	return answer, nil
}

// ToggleHistory shows or hides the history panel of t.
func (c *Controller) ToggleHistory(ctx context.Context, t analysis.Type) error {
	return c.history.Toggle(ctx, t)
}

// RenderHistory shows the full cached history of t.
func (c *Controller) RenderHistory(t analysis.Type) []history.Entry {
	return c.history.Render(t)
}

// FilterHistory narrows the history of t to records matching query.
func (c *Controller) FilterHistory(t analysis.Type, query string) []history.Entry {
	return c.history.Filter(t, query)
}
