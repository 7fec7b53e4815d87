package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"transcript-studio/internal/observability/metrics"
)

// statusWriter captures the response status code for instrumentation.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestMiddleware returns HTTP middleware that logs every request and
// records request metrics, labeled by the matched chi route pattern.
func RequestMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			m.RecordHTTPRequest(r.Method, route, strconv.Itoa(sw.status), duration.Seconds())

			log.Info().
				Str("method", r.Method).
				Str("route", route).
				Int("status", sw.status).
				Dur("duration", duration).
				Msg("HTTP request")
		})
	}
}
