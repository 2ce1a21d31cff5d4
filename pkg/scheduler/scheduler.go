package scheduler

import (
	"context"
	"fmt"
	"time"

	"youthPolicyHub/pkg/logger"

	"github.com/robfig/cron"
)

// Task is a unit of scheduled work. Each run gets its own context bounded by the task timeout.
type Task func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

func New(loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:    cron.NewWithLocation(loc),
		timeout: timeout,
	}
}

// Register adds a task on a six-field cron spec (seconds first), e.g. "0 0 0 * * *".
func (s *Scheduler) Register(name, spec string, task Task) error {
	err := s.cron.AddFunc(spec, func() {
		s.run(name, task)
	})
	if err != nil {
		return fmt.Errorf("failed to register task %s: %w", name, err)
	}

	logger.Info("Scheduled task registered", "task", name, "spec", spec)
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := task(ctx); err != nil {
		logger.Error("Scheduled task failed", "task", name, "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("Scheduled task finished", "task", name, "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Entries returns how many tasks are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
