package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/google/uuid"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/pkg/logger"
)

const sweepBatchSize = 100

// sweepEntryStore is the slice of the entry repository the sweep needs.
type sweepEntryStore interface {
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.Entry, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus) error
}

// StaleEntrySweep flips pending entries that never settled to failed
// once they exceed the configured age. Failed entries can be retried
// by the participant, which re-opens them as pending.
type StaleEntrySweep struct {
	entries       sweepEntryStore
	maxPendingAge time.Duration
	interval      time.Duration
	scheduler     gocron.Scheduler
}

func NewStaleEntrySweep(entries sweepEntryStore, maxPendingAge, interval time.Duration) *StaleEntrySweep {
	return &StaleEntrySweep{
		entries:       entries,
		maxPendingAge: maxPendingAge,
		interval:      interval,
	}
}

func (j *StaleEntrySweep) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	j.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() {
			j.SweepOnce(ctx)
		}),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	logger.Info(ctx, "Stale entry sweep started",
		zap.Duration("interval", j.interval),
		zap.Duration("max_pending_age", j.maxPendingAge))
	return nil
}

func (j *StaleEntrySweep) Stop() {
	if j.scheduler != nil {
		_ = j.scheduler.Shutdown()
	}
}

// SweepOnce runs a single pass. Exported so the wiring layer can
// trigger an immediate sweep at startup.
func (j *StaleEntrySweep) SweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-j.maxPendingAge)

	stale, err := j.entries.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		logger.Error(ctx, "Stale entry sweep: listing pending entries failed", zap.Error(err))
		return
	}
	if len(stale) == 0 {
		return
	}

	failed := 0
	for _, entry := range stale {
		err := j.entries.TransitionStatus(ctx, entry.ID, entities.PaymentStatusPending, entities.PaymentStatusFailed)
		if err != nil {
			// A conflict means the entry settled or changed under us; leave it alone.
			if errors.Is(err, domainerrors.ErrStatusConflict) {
				continue
			}
			logger.Error(ctx, "Stale entry sweep: transition failed",
				zap.String("entry_id", entry.ID.String()), zap.Error(err))
			continue
		}
		failed++
	}

	logger.Info(ctx, "Stale entry sweep pass complete",
		zap.Int("examined", len(stale)), zap.Int("failed", failed))
}
