// internal/page/session.go
package page

import (
	"sync"

	"github.com/mwiater/matscope/internal/analysis"
)

// Session holds the most recent successful result of each analysis type.
// Each slot is overwritten by the next success of its type and is only used
// as the context of follow-up questions.
type Session struct {
	mu       sync.Mutex
	xrd      *analysis.Result
	ir       *analysis.Result
	bet      *analysis.Result
	tga      *analysis.Result
	combined *analysis.Result
}

func (s *Session) slot(t analysis.Type) **analysis.Result {
	switch t {
	case analysis.XRD:
		return &s.xrd
	case analysis.IR:
		return &s.ir
	case analysis.BET:
		return &s.bet
	case analysis.TGA:
		return &s.tga
	case analysis.Combined:
		return &s.combined
	default:
		return nil
	}
}

// Last returns the stored result for t, or nil.
func (s *Session) Last(t analysis.Type) *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.slot(t); p != nil {
		return *p
	}
	return nil
}

// Store replaces the stored result for t.
func (s *Session) Store(t analysis.Type, r *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.slot(t); p != nil {
		*p = r
	}
}
