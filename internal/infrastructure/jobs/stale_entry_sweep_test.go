package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

type sweepStoreStub struct {
	stale           []*entities.Entry
	listErr         error
	transitionErr   error
	transitionCalls []uuid.UUID
	lastCutoff      time.Time
}

func (s *sweepStoreStub) ListStalePending(_ context.Context, olderThan time.Time, _ int) ([]*entities.Entry, error) {
	s.lastCutoff = olderThan
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stale, nil
}

func (s *sweepStoreStub) TransitionStatus(_ context.Context, id uuid.UUID, from, to entities.PaymentStatus) error {
	s.transitionCalls = append(s.transitionCalls, id)
	return s.transitionErr
}

func TestSweepOnce_NoStaleEntries(t *testing.T) {
	store := &sweepStoreStub{stale: []*entities.Entry{}}
	job := NewStaleEntrySweep(store, 24*time.Hour, time.Hour)

	job.SweepOnce(context.Background())
	require.Empty(t, store.transitionCalls)
}

func TestSweepOnce_FailsStalePending(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	store := &sweepStoreStub{stale: []*entities.Entry{{ID: id1}, {ID: id2}}}
	job := NewStaleEntrySweep(store, 24*time.Hour, time.Hour)

	job.SweepOnce(context.Background())
	require.ElementsMatch(t, []uuid.UUID{id1, id2}, store.transitionCalls)
	require.WithinDuration(t, time.Now().Add(-24*time.Hour), store.lastCutoff, time.Minute)
}

func TestSweepOnce_ListError(t *testing.T) {
	store := &sweepStoreStub{listErr: errors.New("db down")}
	job := NewStaleEntrySweep(store, 24*time.Hour, time.Hour)

	job.SweepOnce(context.Background())
	require.Empty(t, store.transitionCalls)
}

func TestSweepOnce_ConflictLeavesEntryAlone(t *testing.T) {
	id := uuid.New()
	store := &sweepStoreStub{
		stale:         []*entities.Entry{{ID: id}},
		transitionErr: domainerrors.ErrStatusConflict,
	}
	job := NewStaleEntrySweep(store, 24*time.Hour, time.Hour)

	// An entry that settled between listing and transition is skipped, not an error.
	job.SweepOnce(context.Background())
	require.Equal(t, []uuid.UUID{id}, store.transitionCalls)
}

func TestStartStop(t *testing.T) {
	store := &sweepStoreStub{stale: []*entities.Entry{}}
	job := NewStaleEntrySweep(store, 24*time.Hour, 50*time.Millisecond)

	require.NoError(t, job.Start(context.Background()))
	job.Stop()
}
