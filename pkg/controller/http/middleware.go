package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// requestLogger attaches a logger carrying the request ID to the request context.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// accessLogger logs HTTP requests and records them into m. Requests are
// labeled with the matched route pattern to keep label cardinality bounded.
func accessLogger(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				elapsed := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				m.ObserveHTTP(r.Method, route, status, elapsed)

				logging.From(r.Context()).Info("access",
					"method", r.Method,
					"path", r.URL.Path,
					"route", route,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed,
					"remote", r.RemoteAddr,
					"user_agent", r.UserAgent(),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
