package service

import (
	"context"
	"time"

	"water_heater/internal/logger"
)

// DefaultHeartbeatInterval is the cadence of the scheduling loop.
const DefaultHeartbeatInterval = 5 * time.Minute

// Heartbeater runs one control cycle.
type Heartbeater interface {
	Heartbeat(ctx context.Context) error
}

// WorkerService drives the controller's heartbeat on a fixed cadence.
type WorkerService struct {
	thermo Heartbeater
	log    *logger.Logger
}

// NewWorkerService returns a loop around thermo. A nil log discards output.
func NewWorkerService(thermo Heartbeater, log *logger.Logger) *WorkerService {
	if log == nil {
		log = logger.NewNop()
	}
	return &WorkerService{thermo: thermo, log: log}
}

// Start runs Run in a new goroutine. The returned channel is closed once Run
// has returned, i.e. after any in-flight heartbeat has finished.
func (w *WorkerService) Start(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, interval)
	}()
	return done
}

// Run heartbeats immediately, then waits interval after each cycle completes,
// so cycles never overlap. A heartbeat in flight finishes even if ctx is
// canceled; the loop stops at the next wait. Failures are logged by the
// controller itself and never stop the loop.
func (w *WorkerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	w.log.Infow("worker_started", "interval", interval.String())
	defer w.log.Infow("worker_stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		err := w.thermo.Heartbeat(context.WithoutCancel(ctx))
		w.log.Debugw("heartbeat_done", "took", time.Since(start).String(), "ok", err == nil)

		timer.Reset(interval)
	}
}
