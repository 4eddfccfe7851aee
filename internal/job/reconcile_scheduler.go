// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"classifieds-service/pkg/locker"
)

// AggregateRebuilder reassembles the aggregate listings file from the
// per-country files.
// Implementation: internal/store
type AggregateRebuilder interface {
	RebuildAggregate() error
}

// ReconcileScheduler periodically rebuilds the aggregate listings file
// with distributed locking so only one instance reconciles at a time.
// The per-listing save path writes the aggregate best-effort; this job
// repairs any drift.
type ReconcileScheduler struct {
	store    AggregateRebuilder
	interval time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ReconcileConfig holds reconcile scheduler configuration.
type ReconcileConfig struct {
	Interval  time.Duration
	OnStartup bool
}

// NewReconcileScheduler creates a new ReconcileScheduler with
// distributed locking support.
func NewReconcileScheduler(
	store AggregateRebuilder,
	cfg ReconcileConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *ReconcileScheduler {
	return &ReconcileScheduler{
		store:    store,
		interval: cfg.Interval,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background reconcile job.
func (s *ReconcileScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting reconcile scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *ReconcileScheduler) Stop() {
	s.logger.Info("stopping reconcile scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("reconcile scheduler stopped")
}

// run is the main loop of the scheduler.
func (s *ReconcileScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	// Run immediately if configured
	if runOnStartup {
		s.executeReconcile()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeReconcile()
		}
	}
}

// executeReconcile rebuilds the aggregate under a distributed lock.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: Lock held for full interval to prevent duplicate rebuilds
//   - Failure: Lock released immediately to allow retry by another instance
func (s *ReconcileScheduler) executeReconcile() {
	const lockKey = "reconcile:scheduler:lock"

	// Try to acquire lock with interval-based TTL (cooldown model)
	acquired, err := s.locker.Acquire(s.ctx, lockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is reconciling, skipping execution")

		return
	}

	start := time.Now()
	if err := s.store.RebuildAggregate(); err != nil {
		// Release lock immediately on error (allow immediate retry)
		if relErr := s.locker.Release(s.ctx, lockKey); relErr != nil {
			s.logger.Error("failed to release lock after reconcile error", zap.Error(relErr))
		}
		s.logger.Warn("aggregate reconcile failed, lock released for retry", zap.Error(err))

		return
	}

	// Lock will expire naturally after interval (cooldown period)
	s.logger.Info("aggregate reconciled, lock held for cooldown",
		zap.Duration("took", time.Since(start)),
		zap.Duration("cooldown", s.interval),
	)
}
