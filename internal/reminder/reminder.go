// Package reminder tells learners when saved cards come due again.
package reminder

import (
	"context"
	"fmt"
	"time"

	"lexicards/internal/service"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Notifier delivers a due-cards reminder to the owner of a storage key
type Notifier interface {
	// Accepts reports whether the notifier can reach the owner of key
	Accepts(key string) bool
	NotifyDue(key string, count int) error
}

// DueSource reports saved profiles and their due cards
type DueSource interface {
	Profiles(ctx context.Context) ([]string, error)
	DueSummary(ctx context.Context, key string) (service.DueSummary, error)
}

// Reminder runs the due-card check on a cron schedule
type Reminder struct {
	scheduler *gocron.Scheduler
	spec      string
	source    DueSource
	notifier  Notifier
	logger    *zap.Logger
}

// New creates a reminder that checks on the cron expression spec (UTC)
func New(spec string, source DueSource, notifier Notifier, logger *zap.Logger) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		spec:      spec,
		source:    source,
		notifier:  notifier,
		logger:    logger,
	}
}

// Start schedules the check and runs the scheduler in the background
func (r *Reminder) Start() error {
	if _, err := r.scheduler.Cron(r.spec).Do(r.run); err != nil {
		return fmt.Errorf("failed to schedule reminder %q: %w", r.spec, err)
	}
	r.scheduler.StartAsync()

	r.logger.Info("Reminder scheduled", zap.String("cron", r.spec))
	return nil
}

// Stop terminates the scheduler
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) run() {
	sent, err := r.CheckAndNotify(context.Background())
	if err != nil {
		r.logger.Error("Reminder check failed", zap.Error(err))
		return
	}
	r.logger.Info("Reminder check completed", zap.Int("notified", sent))
}

// CheckAndNotify sends one reminder to every reachable profile with due
// cards and returns how many were sent. Failures for a single profile are
// logged and skipped.
func (r *Reminder) CheckAndNotify(ctx context.Context) (int, error) {
	keys, err := r.source.Profiles(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, key := range keys {
		if !r.notifier.Accepts(key) {
			continue
		}

		summary, err := r.source.DueSummary(ctx, key)
		if err != nil {
			r.logger.Warn("Failed to count due cards",
				zap.String("storage_key", key),
				zap.Error(err))
			continue
		}
		if summary.DueToday == 0 {
			continue
		}

		if err := r.notifier.NotifyDue(key, summary.DueToday); err != nil {
			r.logger.Warn("Failed to send reminder",
				zap.String("storage_key", key),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
