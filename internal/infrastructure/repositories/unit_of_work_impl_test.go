package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	createEntryTables(t, db)
	createUserTable(t, db)
	uow := NewUnitOfWork(db)
	entryRepo := NewEntryRepository(db)
	userRepo := NewUserRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, userRepo.Create(ctx, &entities.User{
		ID: userID, Email: "tx@example.com", Name: "Tx", PasswordHash: "h",
		Role: entities.UserRoleParticipant, IsPromoted: true,
	}))

	// Committed: promotion consumed and entry settled together.
	var entryID uuid.UUID
	err := uow.Do(ctx, func(txCtx context.Context) error {
		entry, _, err := entryRepo.CreateIfAbsent(txCtx, newPendingEntry(userID, uuid.New()))
		if err != nil {
			return err
		}
		entryID = entry.ID
		consumed, err := userRepo.ConsumePromotion(txCtx, userID)
		if err != nil {
			return err
		}
		require.True(t, consumed)
		return entryRepo.MarkFree(txCtx, entry.ID)
	})
	require.NoError(t, err)

	got, err := entryRepo.GetByID(ctx, entryID)
	require.NoError(t, err)
	require.True(t, got.Settled())

	// Rolled back: neither the entry nor the flag change survives.
	boom := errors.New("boom")
	contestID := uuid.New()
	err = uow.Do(ctx, func(txCtx context.Context) error {
		if _, _, err := entryRepo.CreateIfAbsent(txCtx, newPendingEntry(userID, contestID)); err != nil {
			return err
		}
		if err := userRepo.SetPromoted(txCtx, userID, true); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = entryRepo.FindByUserAndContest(ctx, userID, contestID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.False(t, user.IsPromoted)
}
