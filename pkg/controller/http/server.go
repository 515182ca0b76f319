package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// DefaultMaxBodySize limits request bodies to 1 MiB.
const DefaultMaxBodySize int64 = 1 << 20

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	metrics     *metrics.Metrics
	validate    *validator.Validate
	maxBodySize int64
}

type Options func(*Server)

// WithMetrics records request metrics and exposes /metrics.
func WithMetrics(m *metrics.Metrics) Options {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Options {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

func New(uc *usecase.UseCases, opts ...Options) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("use cases are required")
	}

	validate, err := newValidator()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set up request validator")
	}

	r := chi.NewRouter()
	s := &Server{
		router:      r,
		uc:          uc,
		validate:    validate,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger(s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/residual-risk", s.residualRiskHandler)
		r.Get("/matrix/{approach}", s.matrixHandler)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.listSessionsHandler)
			r.Post("/", s.openSessionHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Delete("/", s.closeSessionHandler)

				r.Route("/events", func(r chi.Router) {
					r.Post("/", s.generateEventsHandler)
					r.Get("/", s.listEventsHandler)
					r.Get("/summary", s.eventSummaryHandler)
					r.Get("/totals", s.eventTotalsHandler)
					r.Get("/trend", s.eventTrendHandler)
					r.Get("/relationship", s.eventRelationshipHandler)
					r.Get("/stats", s.eventStatsHandler)
					r.Get("/validate", s.validateEventsHandler)
				})

				r.Route("/assessments", func(r chi.Router) {
					r.Get("/", s.listAssessmentsHandler)
					r.Get("/summary", s.assessmentSummaryHandler)
					r.Put("/{unit}", s.upsertAssessmentHandler)
					r.Get("/{unit}", s.getAssessmentHandler)
				})
			})
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
