// internal/web/server.go
// Package web serves the analysis page over HTTP. Every request is handled
// against one shared page controller, so the browser sees the same section
// and history state the command line would.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mwiater/matscope/internal/appconfig"
	"github.com/mwiater/matscope/internal/logging"
	"github.com/mwiater/matscope/internal/page"
)

// maxUploadBytes bounds the in-memory part of a multipart upload.
const maxUploadBytes = 32 << 20

// Server holds the shared controller. Handlers run one at a time.
type Server struct {
	mu         sync.Mutex
	cfg        *appconfig.Config
	controller *page.Controller
}

// New returns a server for controller.
func New(cfg *appconfig.Config, controller *page.Controller) *Server {
	return &Server{cfg: cfg, controller: controller}
}

// Handler returns the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://" + s.cfg.ListenAddr()}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleIndex)
	r.Post("/analyze/{type}", s.handleAnalyze)
	r.Post("/followup/{type}", s.handleFollowUp)
	r.Get("/history/{type}", s.handleHistory)
	r.Post("/history/{type}/toggle", s.handleToggleHistory)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("web listening on %s (api=%s)", srv.Addr, s.cfg.ServiceURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.LogEvent("web shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
