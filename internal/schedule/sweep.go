// Package schedule holds the background jobs: the daily monitor sweep and
// the reminder batch publisher.
package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"IAmFine/internal/cache"
	"IAmFine/internal/model"
	"IAmFine/internal/repository"
	"IAmFine/internal/service"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/metrics"
	"IAmFine/utils"
)

const sweepLockKey = "sweep:daily"

// Alerter is the escalation seam the sweep drives.
type Alerter interface {
	SendCheckinAlert(ctx context.Context, userDBID int64, daysMissed int) (*service.EscalationOutcome, error)
}

// Summary is the aggregate result of one sweep run. Scanned counts every
// active user examined, Notified the users whose contact got an alert,
// Skipped everyone else, healthy users included. Scanned is always
// Notified + Skipped.
type Summary struct {
	Scanned  int   `json:"scanned"`
	Notified int   `json:"notified"`
	Skipped  int   `json:"skipped"`
	Duration int64 `json:"duration_ms"`
}

// Sweeper scans all active users for missed check-ins and escalates the
// stale ones. One run at a time per process (running flag) and per cluster
// (redis lease).
type Sweeper struct {
	users     repository.UserStore
	alerter   Alerter
	loc       *time.Location
	staleDays int
	workers   int
	lockTTL   time.Duration
	logger    *zap.Logger

	running atomic.Bool
	now     func() time.Time

	// takeLease is swapped out in tests to avoid a live redis
	takeLease func(ctx context.Context) (bool, error)
	dropLease func(ctx context.Context)
}

func NewSweeper(users repository.UserStore, alerter Alerter, loc *time.Location, staleDays, workers int, lockTTL time.Duration, logger *zap.Logger) *Sweeper {
	s := &Sweeper{
		users:     users,
		alerter:   alerter,
		loc:       loc,
		staleDays: staleDays,
		workers:   workers,
		lockTTL:   lockTTL,
		logger:    logger,
		now:       time.Now,
	}
	s.takeLease = func(ctx context.Context) (bool, error) {
		return cache.TryLock(ctx, sweepLockKey, s.lockTTL)
	}
	s.dropLease = func(ctx context.Context) {
		if err := cache.Unlock(ctx, sweepLockKey); err != nil {
			s.logger.Warn("Failed to release sweep lock", zap.Error(err))
		}
	}
	return s
}

// Run executes one full sweep and returns its summary. A second call while a
// run is in flight, locally or on another instance, gets SweepAlreadyRunning.
func (s *Sweeper) Run(ctx context.Context) (*Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, pkgerrors.SweepAlreadyRunning
	}
	defer s.running.Store(false)

	acquired, err := s.takeLease(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !acquired {
		return nil, pkgerrors.SweepAlreadyRunning
	}
	defer s.dropLease(ctx)

	start := s.now()
	s.logger.Info("Starting monitor sweep",
		zap.Time("start_time", start),
		zap.Int("stale_days", s.staleDays),
	)

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	var notified, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range users {
		user := users[i]
		g.Go(func() error {
			s.sweepUser(gctx, &user, start, &notified, &skipped)
			// one user's failure never stops the batch
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	summary := &Summary{
		Scanned:  len(users),
		Notified: int(notified.Load()),
		Skipped:  int(skipped.Load()),
		Duration: elapsed.Milliseconds(),
	}

	metrics.RecordSweep(ctx, int64(summary.Scanned), notified.Load(), skipped.Load(), elapsed)

	s.logger.Info("Monitor sweep completed",
		zap.Int("scanned", summary.Scanned),
		zap.Int("notified", summary.Notified),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", elapsed),
	)

	return summary, nil
}

// sweepUser handles one user, absorbing panics so a poisoned row cannot take
// down the batch.
func (s *Sweeper) sweepUser(ctx context.Context, user *model.User, now time.Time, notified, skipped *atomic.Int64) {
	defer func() {
		if r := recover(); r != nil {
			skipped.Add(1)
			s.logger.Error("Panic while sweeping user",
				zap.Int64("user_id", user.PublicID),
				zap.Any("panic", r),
			)
		}
	}()

	daysMissed := s.daysMissed(user, now)
	if daysMissed < s.staleDays {
		skipped.Add(1)
		return
	}

	outcome, err := s.alerter.SendCheckinAlert(ctx, user.ID, daysMissed)
	if err != nil {
		skipped.Add(1)
		s.logger.Error("Failed to escalate missed check-in",
			zap.Int64("user_id", user.PublicID),
			zap.Int("days_missed", daysMissed),
			zap.Error(err),
		)
		return
	}

	if outcome.Notified {
		notified.Add(1)
		return
	}

	skipped.Add(1)
	s.logger.Warn("Stale user not notified",
		zap.Int64("user_id", user.PublicID),
		zap.Int("days_missed", daysMissed),
		zap.String("reason", outcome.SkipReason),
	)
}

// daysMissed counts whole calendar days since the user's last check-in, in
// the sweep timezone. Users who never checked in are measured from their
// registration date, so a fresh account is not alerted on day one.
func (s *Sweeper) daysMissed(user *model.User, now time.Time) int {
	reference := user.CreatedAt
	if user.LastCheckinAt != nil {
		reference = *user.LastCheckinAt
	}
	return utils.DaysBetween(reference, now, s.loc)
}
