package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

// IdleCloser closes sessions that have not been used within idle.
type IdleCloser interface {
	CloseIdle(ctx context.Context, idle time.Duration) int
}

// SessionSweeper periodically closes idle sessions.
//
// Architecture assumptions:
// - Single server instance; sessions live in process memory.
type SessionSweeper struct {
	sessions IdleCloser
	idle     time.Duration
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionSweeper creates a sweeper that checks every interval and closes
// sessions idle for longer than idle.
func NewSessionSweeper(sessions IdleCloser, idle, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		idle:     idle,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. It does not block. A non-positive
// interval is rejected and nothing is started.
func (w *SessionSweeper) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.Wrap(model.ErrInvalidArgument, "sweep interval must be positive",
			goerr.V(model.ArgumentKey, "sweep-interval"),
			goerr.V(model.ValueKey, w.interval.String()))
	}

	logging.Default().Info("session sweeper starting",
		"idle", w.idle.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the sweeper to stop and waits for completion.
func (w *SessionSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("session sweeper context cancelled")
			return
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	startTime := time.Now()
	closed := w.sessions.CloseIdle(ctx, w.idle)
	if closed > 0 {
		logging.Default().Info("idle sessions swept",
			"closed", closed,
			"duration", time.Since(startTime).String())
	}
}
