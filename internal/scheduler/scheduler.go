// Package scheduler runs the periodic industry insight refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/career-coach/internal/lock"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/robfig/cron/v3"
)

const (
	sweepLockKey = "insights:refresh-all"
	sweepLockTTL = time.Hour
)

// Sweeper refreshes every known industry.
type Sweeper interface {
	RefreshAll(ctx context.Context) error
}

// InsightScheduler wraps robfig/cron and triggers the weekly sweep. The
// sweep lock keeps replicas from sweeping at the same time.
type InsightScheduler struct {
	cron    *cron.Cron
	spec    string
	sweeper Sweeper
	locker  lock.Locker
	log     *logger.Logger
}

func New(spec string, sweeper Sweeper, locker lock.Locker, log *logger.Logger) *InsightScheduler {
	log = log.With("component", "InsightScheduler")
	return &InsightScheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{log})),
		spec:    spec,
		sweeper: sweeper,
		locker:  locker,
		log:     log,
	}
}

// Start registers the sweep and starts the cron loop. ctx bounds every
// sweep it triggers.
func (s *InsightScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		_ = s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.log.Info("cron started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to return.
func (s *InsightScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

// RunOnce performs one sweep if no other replica holds the sweep lock.
func (s *InsightScheduler) RunOnce(ctx context.Context) error {
	unlock, ok, err := s.locker.TryLock(ctx, sweepLockKey, sweepLockTTL)
	if err != nil {
		s.log.Error("sweep lock failed", "error", err)
		return err
	}
	if !ok {
		s.log.Info("sweep already running elsewhere, skipping")
		return nil
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("sweep unlock failed", "error", err)
		}
	}()

	started := time.Now()
	s.log.Info("insight sweep started")
	if err := s.sweeper.RefreshAll(ctx); err != nil {
		s.log.Error("insight sweep aborted", "error", err, "elapsed", time.Since(started))
		return err
	}
	s.log.Info("insight sweep complete", "elapsed", time.Since(started))
	return nil
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
