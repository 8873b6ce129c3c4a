package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/pkg/metrics"
)

const underfundedJob = "underfunded_sweep"

// UnderfundedMarker flags active wishlist items whose deadline passed.
type UnderfundedMarker interface {
	MarkOverdueUnderfunded(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	cron    *cron.Cron
	marker  UnderfundedMarker
	timeout time.Duration
	now     func() time.Time
}

// New registers the underfunded sweep on spec (standard five field cron syntax) in timezone.
func New(spec, timezone string, marker UnderfundedMarker) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unable to load cron timezone %q: %w", timezone, err)
	}

	logger := cron.PrintfLogger(zap.NewStdLog(zap.L().Named("cron")))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		marker:  marker,
		timeout: 5 * time.Minute,
		now:     time.Now,
	}

	if _, err := s.cron.AddFunc(spec, s.runUnderfundedSweep); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		zap.L().Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) runUnderfundedSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = SweepUnderfunded(ctx, s.marker, s.now())
}

// SweepUnderfunded runs one underfunding pass and records the outcome.
func SweepUnderfunded(ctx context.Context, marker UnderfundedMarker, now time.Time) (int64, error) {
	n, err := marker.MarkOverdueUnderfunded(ctx, now)
	metrics.RecordJobRun(underfundedJob, err == nil)
	if err != nil {
		zap.L().Error("underfunded sweep failed", zap.Error(err))
		return 0, err
	}
	metrics.RecordUnderfunded(n)
	zap.L().Info("underfunded sweep finished", zap.Int64("marked", n), zap.Time("now", now))
	return n, nil
}
