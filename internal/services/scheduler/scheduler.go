package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrAlreadyStarted  = errors.New("scheduler already started")
	ErrInvalidInterval = errors.New("interval must be positive")
)

// State is the lifecycle state of a Scheduler.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TickFunc is one scheduled cycle.
type TickFunc func(ctx context.Context)

// Scheduler runs a TickFunc once per interval until stopped.
// A Scheduler is single use: Idle -> Running -> Stopped.
type Scheduler struct {
	log  *slog.Logger
	tick TickFunc

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle Scheduler.
func New(log *slog.Logger, tick TickFunc) *Scheduler {
	return &Scheduler{log: log, tick: tick, done: make(chan struct{})}
}

// Start launches the loop in the background. The first tick happens after one interval.
// The loop ends when Stop is called or ctx is canceled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	const opn = "scheduler.Start"

	if interval <= 0 {
		return fmt.Errorf("%s: %w: %s", opn, ErrInvalidInterval, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("%s: %w (state %s)", opn, ErrAlreadyStarted, s.state)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateRunning

	s.log.InfoContext(ctx, "Scheduler started", "op", opn, "interval", interval.String())

	go s.loop(loopCtx, interval)

	return nil
}

// Stop ends the loop and waits for it to exit. It is safe to call more than once,
// and on a scheduler that was never started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.state = StateStopped
		close(s.done)
		s.mu.Unlock()
		return
	case StateStopped:
		s.mu.Unlock()
		<-s.done
		return
	}

	s.state = StateStopped
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.done

	s.log.Info("Scheduler stopped", "op", "scheduler.Stop")
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// loop checks for cancellation only between ticks. A tick runs with a context that is
// not canceled by Stop, so an in-flight fetch completes or times out on its own.
func (s *Scheduler) loop(ctx context.Context, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tickCtx := context.WithoutCancel(ctx)
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			s.markStopped()
			return
		case <-ticker.C:
		}

		if ctx.Err() != nil {
			s.markStopped()
			return
		}

		s.log.Debug("Scheduler tick", "op", "scheduler.loop", "tick", n)
		s.tick(tickCtx)
	}
}

// markStopped records a stop caused by the parent context.
func (s *Scheduler) markStopped() {
	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
}
