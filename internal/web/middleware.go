// internal/web/middleware.go
package web

import (
	"net/http"
	"time"

	"github.com/mwiater/matscope/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logging.LogEvent("web %s %s status=%d duration=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
