// internal/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mwiater/matscope/internal/analysis"
	"github.com/mwiater/matscope/internal/formatter"
	"github.com/mwiater/matscope/internal/logging"
	"github.com/mwiater/matscope/internal/page"
	"github.com/mwiater/matscope/internal/report"
)

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func pathType(w http.ResponseWriter, r *http.Request) (analysis.Type, bool) {
	t, err := analysis.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errResp{Error: err.Error()})
		return "", false
	}
	return t, true
}

// respond sends the section as JSON to API callers and redirects browsers
// back to the section.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, t analysis.Type) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, formatter.NewAnalysisView(s.controller.Section(t)))
		return
	}
	http.Redirect(w, r, "/#"+string(t)+"-section", http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter) {
	p := report.Page{Interactive: true}
	for _, t := range analysis.AllTypes() {
		section, err := report.NewSection(s.controller.Section(t), s.controller.History().Panel(t))
		if err != nil {
			logging.LogEvent("web render %s failed: %v", t, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		p.Sections = append(p.Sections, section)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Render(w, p); err != nil {
		logging.LogEvent("web render page failed: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderPage(w)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	t, ok := pathType(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid form: " + err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	dir, err := os.MkdirTemp("", "matscope-upload-*")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errResp{Error: err.Error()})
		return
	}
	defer os.RemoveAll(dir)

	form, err := spoolForm(t, r.MultipartForm, dir)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error()})
		return
	}

	// Failures are recorded on the section.
	_, _ = s.controller.SubmitAnalysis(r.Context(), t, form)
	s.respond(w, r, t)
}

// spoolForm copies uploaded files to dir and describes them, with the text
// fields of t, as an analysis form. Missing files are left out.
func spoolForm(t analysis.Type, mf *multipart.Form, dir string) (analysis.Form, error) {
	var form analysis.Form
	for _, field := range analysis.FileFields(t) {
		headers := mf.File[field]
		if len(headers) == 0 {
			continue
		}
		path, err := spoolFile(headers[0], filepath.Join(dir, field))
		if err != nil {
			return analysis.Form{}, fmt.Errorf("spool %s: %w", field, err)
		}
		form.Files = append(form.Files, analysis.FormFile{Field: field, Path: path, Name: filepath.Base(headers[0].Filename)})
	}
	for _, name := range analysis.TextFields(t) {
		var value string
		if values := mf.Value[name]; len(values) > 0 {
			value = values[0]
		}
		form.Fields = append(form.Fields, analysis.FormField{Name: name, Value: value})
	}
	return form, nil
}

func spoolFile(fh *multipart.FileHeader, path string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return path, dst.Close()
}

func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	t, ok := pathType(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.controller.SubmitFollowUp(r.Context(), t, r.FormValue("question"))
	if errors.Is(err, page.ErrEmptyQuestion) && wantsJSON(r) {
		writeJSON(w, http.StatusBadRequest, errResp{Error: page.EmptyQuestionPrompt})
		return
	}
	s.respond(w, r, t)
}

func (s *Server) handleToggleHistory(w http.ResponseWriter, r *http.Request) {
	t, ok := pathType(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// A failed fetch is shown in the panel.
	_ = s.controller.ToggleHistory(r.Context(), t)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, formatter.NewHistoryView(s.controller.History().Panel(t)))
		return
	}
	http.Redirect(w, r, "/#"+string(t)+"-section", http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	t, ok := pathType(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.FilterHistory(t, r.URL.Query().Get("q"))
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, formatter.NewHistoryView(s.controller.History().Panel(t)))
		return
	}
	s.renderPage(w)
}
