package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dealwire/dealbot/internal/models"
)

// Queue is the publish backlog the scheduler drains one entry at a time.
type Queue interface {
	DequeueOne() (models.Deal, bool)
}

// Publisher delivers one deal to the configured platforms.
type Publisher interface {
	Publish(ctx context.Context, deal models.Deal)
}

// Scheduler fires on a fixed cron cadence and dispatches at most one queued
// deal per tick, which bounds the outbound platform call rate regardless of
// backlog size. A tick that fires while a previous dispatch is still running
// is skipped rather than stacked.
type Scheduler struct {
	queue           Queue
	publisher       Publisher
	dispatchTimeout time.Duration

	cron     *cron.Cron
	inFlight atomic.Bool
}

func New(queue Queue, publisher Publisher, dispatchTimeout time.Duration) *Scheduler {
	return &Scheduler{
		queue:           queue,
		publisher:       publisher,
		dispatchTimeout: dispatchTimeout,
	}
}

// Start registers the tick under the given 5-field cron spec (e.g.
// "0 * * * *" for hourly at minute 0) and starts the cadence.
func (s *Scheduler) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	slog.Info("Publish scheduler started", "schedule", spec)
	return nil
}

// Stop halts the cadence and waits for an in-flight dispatch to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	for s.inFlight.Load() {
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *Scheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Warn("Previous dispatch still running, skipping tick")
		return
	}
	defer s.inFlight.Store(false)

	deal, ok := s.queue.DequeueOne()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()
	s.publisher.Publish(ctx, deal)
}
