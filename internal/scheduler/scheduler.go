// Package scheduler runs the reservation pull on a cron schedule inside the
// server process. Runs for the same property are serialized by the sync lock,
// so a schedule may safely coexist with cmd/sync and manual pulls.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ignite/guest-marketing/internal/pkg/logger"
	"github.com/ignite/guest-marketing/internal/service/reservation"
)

// Puller pulls the default reservation window.
type Puller interface {
	PullDefault(ctx context.Context) (reservation.Result, error)
}

// Scheduler triggers Puller on a cron spec. Times are UTC.
type Scheduler struct {
	cron    *cron.Cron
	puller  Puller
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New parses spec (five-field cron or a descriptor such as "@hourly" or
// "@every 30m") and registers the pull. Each run is bounded by timeout.
func New(spec string, puller Puller, timeout time.Duration) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		puller:  puller,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("sync scheduler started", "next_run", s.Next().Format(time.RFC3339))
}

// Next reports when the pull fires next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop cancels an in-flight pull and waits for it to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runOnce() {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.puller.PullDefault(ctx)
	switch {
	case errors.Is(err, reservation.ErrSyncInProgress):
		logger.Info("scheduled sync skipped, another pull holds the lock")
	case err != nil:
		logger.Error("scheduled sync failed", "error", err, "duration", time.Since(start).String())
	default:
		logger.Info("scheduled sync complete",
			"pulled", res.Pulled, "upserted", res.Upserted, "skipped", res.Skipped,
			"duration", time.Since(start).String())
	}
}
