package usecase

import (
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/service/simulation"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// RepositoryFactory creates the store owned by a new session.
type RepositoryFactory func() interfaces.Repository

type UseCases struct {
	newRepo     RepositoryFactory
	metrics     *metrics.Metrics
	genOpts     []simulation.Option
	seedFunc    func() uint64
	maxSessions int
	now         func() time.Time
	Sessions    *SessionManager
	Simulation  *SimulationUseCase
	Assessment  *AssessmentUseCase
}

type Option func(*UseCases)

// WithMetrics records domain counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

// WithGeneratorOptions configures the generator of every new session.
func WithGeneratorOptions(opts ...simulation.Option) Option {
	return func(uc *UseCases) {
		uc.genOpts = append(uc.genOpts, opts...)
	}
}

// WithSeedFunc sets how sessions opened without an explicit seed are seeded.
func WithSeedFunc(f func() uint64) Option {
	return func(uc *UseCases) {
		uc.seedFunc = f
	}
}

// WithMaxSessions limits the number of concurrently open sessions. Zero means no limit.
func WithMaxSessions(n int) Option {
	return func(uc *UseCases) {
		uc.maxSessions = n
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(newRepo RepositoryFactory, opts ...Option) *UseCases {
	uc := &UseCases{
		newRepo:  newRepo,
		seedFunc: randomSeed,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Sessions = NewSessionManager(uc.newRepo, uc.genOpts,
		withSessionSeed(uc.seedFunc),
		withSessionLimit(uc.maxSessions),
		withSessionClock(uc.now),
		withSessionMetrics(uc.metrics),
	)
	uc.Simulation = NewSimulationUseCase(uc.Sessions, uc.metrics)
	uc.Assessment = NewAssessmentUseCase(uc.Sessions, uc.metrics)

	return uc
}
