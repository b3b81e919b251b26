// Package jobs runs background maintenance: pruning old LLM request events
// and dropping idle session machines.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/sensei/internal/logger"
)

// Pruner deletes LLM request events older than cutoff. store.EventRepo
// implements it.
type Pruner interface {
	PruneLLMEvents(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper drops idle sessions. *session.Registry implements it.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// Config controls job timing.
type Config struct {
	Retention   time.Duration // LLM events older than this are pruned
	SessionIdle time.Duration // sessions unused for this long are dropped
	SweepEvery  time.Duration
	PruneAt     string // daily, "HH:MM" in UTC
}

// DefaultConfig returns 30-day retention, a 30-minute idle limit and a
// 10-minute sweep.
func DefaultConfig() Config {
	return Config{
		Retention:   30 * 24 * time.Hour,
		SessionIdle: 30 * time.Minute,
		SweepEvery:  10 * time.Minute,
		PruneAt:     "03:30",
	}
}

// Runner owns the gocron scheduler.
type Runner struct {
	cfg      Config
	events   Pruner
	sessions Sweeper
	log      *logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	sched   *gocron.Scheduler
	running bool
}

// New creates a Runner. Either collaborator may be nil, which skips its job.
func New(cfg Config, events Pruner, sessions Sweeper, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	def := DefaultConfig()
	if cfg.Retention <= 0 {
		cfg.Retention = def.Retention
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = def.SessionIdle
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = def.SweepEvery
	}
	if cfg.PruneAt == "" {
		cfg.PruneAt = def.PruneAt
	}
	return &Runner{
		cfg:      cfg,
		events:   events,
		sessions: sessions,
		log:      log.With("component", "jobs"),
		now:      time.Now,
	}
}

// Start schedules the jobs and runs them in the background. Jobs never
// overlap with themselves.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if r.events != nil {
		if _, err := s.Every(1).Day().At(r.cfg.PruneAt).Do(r.prune); err != nil {
			return fmt.Errorf("schedule prune: %w", err)
		}
	}
	if r.sessions != nil {
		if _, err := s.Every(r.cfg.SweepEvery).WaitForSchedule().Do(r.sweep); err != nil {
			return fmt.Errorf("schedule sweep: %w", err)
		}
	}

	s.StartAsync()
	r.sched = s
	r.running = true
	r.log.Info("jobs started", "prune_at", r.cfg.PruneAt, "sweep_every", r.cfg.SweepEvery.String())
	return nil
}

// Stop halts the scheduler. It is safe to call when not started.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.sched.Stop()
	r.sched = nil
	r.running = false
}

// PruneNow deletes events older than the retention window.
func (r *Runner) PruneNow(ctx context.Context) (int64, error) {
	if r.events == nil {
		return 0, nil
	}
	cutoff := r.now().Add(-r.cfg.Retention)
	n, err := r.events.PruneLLMEvents(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune llm events: %w", err)
	}
	return n, nil
}

// SweepNow drops idle sessions and returns how many were removed.
func (r *Runner) SweepNow() int {
	if r.sessions == nil {
		return 0
	}
	return r.sessions.Sweep(r.cfg.SessionIdle)
}

func (r *Runner) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := r.PruneNow(ctx)
	if err != nil {
		r.log.Warn("event prune failed", "error", err)
		return
	}
	r.log.Info("llm events pruned", "deleted", n)
}

func (r *Runner) sweep() {
	if n := r.SweepNow(); n > 0 {
		r.log.Debug("idle sessions dropped", "count", n)
	}
}
