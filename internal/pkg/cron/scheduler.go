package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// task is one registered background unit of work, e.g. the previous-day
// attendance sweep. Tasks must be idempotent: each one fires immediately
// on Start, so a process restart replays the most recent run.
type task struct {
	name  string
	every time.Duration
	run   func(ctx context.Context) error
}

// Scheduler drives the engine's background tasks on fixed tick intervals,
// one goroutine per task.
type Scheduler struct {
	mu     sync.Mutex
	tasks  []task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers a named task with its tick interval.
func (s *Scheduler) AddJob(name string, every time.Duration, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task{name: name, every: every, run: run})
	slog.Info("Cron: task registered", "task", name, "every", every)
}

// Start launches the registered tasks. Each fires once right away, then
// on every tick until Stop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(t)
	}
	slog.Info("Cron: scheduler started", "tasks", len(s.tasks))
}

// Stop cancels the task context and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron: scheduler stopped")
}

func (s *Scheduler) loop(t task) {
	defer s.wg.Done()

	ticker := time.NewTicker(t.every)
	defer ticker.Stop()

	for {
		s.execute(s.ctx, t)
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, t task) {
	start := time.Now()
	if err := t.run(ctx); err != nil {
		slog.Error("Cron: task failed", "task", t.name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron: task finished", "task", t.name, "duration", time.Since(start))
}

// RunOnce fires every registered task once on the caller's context,
// bypassing the tickers. Tests use it to force a sweep at a known instant.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		s.execute(ctx, t)
	}
}
