package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/domain/repositories"
	"stagepass.backend/internal/infrastructure/blobstore"
	"stagepass.backend/pkg/logger"
	"stagepass.backend/pkg/utils"
)

// ContestUsecase handles contest lifecycle and the admin operations
// that run over a contest's entries.
type ContestUsecase struct {
	contestRepo    repositories.ContestRepository
	entryRepo      repositories.EntryRepository
	submissionRepo repositories.SubmissionRepository
	userRepo       repositories.UserRepository
	blobs          blobstore.Store
	uow            repositories.UnitOfWork
}

// NewContestUsecase creates a new contest usecase
func NewContestUsecase(
	contestRepo repositories.ContestRepository,
	entryRepo repositories.EntryRepository,
	submissionRepo repositories.SubmissionRepository,
	userRepo repositories.UserRepository,
	blobs blobstore.Store,
	uow repositories.UnitOfWork,
) *ContestUsecase {
	return &ContestUsecase{
		contestRepo:    contestRepo,
		entryRepo:      entryRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		blobs:          blobs,
		uow:            uow,
	}
}

// CreateContest creates a contest. Inactive by default unless the
// input says otherwise.
func (u *ContestUsecase) CreateContest(ctx context.Context, input *entities.CreateContestInput) (*entities.Contest, error) {
	contest := &entities.Contest{
		ID:              utils.GenerateUUIDv7(),
		Name:            input.Name,
		Description:     input.Description,
		EntryFeeKobo:    input.EntryFeeKobo,
		FirstPrizeKobo:  input.FirstPrizeKobo,
		SecondPrizeKobo: input.SecondPrizeKobo,
		ThirdPrizeKobo:  input.ThirdPrizeKobo,
		Stage:           input.Stage,
		Category:        input.Category,
		MaxContestants:  input.MaxContestants,
	}
	if input.IsActive != nil {
		contest.IsActive = *input.IsActive
	}
	if err := u.contestRepo.Create(ctx, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

// GetContest returns one contest by id
func (u *ContestUsecase) GetContest(ctx context.Context, id uuid.UUID) (*entities.Contest, error) {
	return u.contestRepo.GetByID(ctx, id)
}

// ListContests lists contests, optionally only active ones
func (u *ContestUsecase) ListContests(ctx context.Context, activeOnly bool) ([]*entities.Contest, error) {
	return u.contestRepo.List(ctx, activeOnly)
}

// UpdateContest applies a partial update. A fee change only affects
// entries created after it; existing entries keep their snapshot.
func (u *ContestUsecase) UpdateContest(ctx context.Context, id uuid.UUID, input *entities.UpdateContestInput) (*entities.Contest, error) {
	contest, err := u.contestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		contest.Name = *input.Name
	}
	if input.Description != nil {
		contest.Description = *input.Description
	}
	if input.EntryFeeKobo != nil {
		contest.EntryFeeKobo = *input.EntryFeeKobo
	}
	if input.FirstPrizeKobo != nil {
		contest.FirstPrizeKobo = *input.FirstPrizeKobo
	}
	if input.SecondPrizeKobo != nil {
		contest.SecondPrizeKobo = *input.SecondPrizeKobo
	}
	if input.ThirdPrizeKobo != nil {
		contest.ThirdPrizeKobo = *input.ThirdPrizeKobo
	}
	if input.IsActive != nil {
		contest.IsActive = *input.IsActive
	}
	if input.Category != nil {
		contest.Category = *input.Category
	}
	if input.MaxContestants != nil {
		contest.MaxContestants = *input.MaxContestants
	}

	if err := u.contestRepo.Update(ctx, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

// SetStage moves the contest to a new stage label. Stages are
// free-form; admins own the progression, not the server.
func (u *ContestUsecase) SetStage(ctx context.Context, id uuid.UUID, stage string) (*entities.Contest, error) {
	if stage == "" {
		return nil, domainerrors.BadRequest("stage must not be empty")
	}
	if _, err := u.contestRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := u.contestRepo.SetStage(ctx, id, stage); err != nil {
		return nil, err
	}
	return u.contestRepo.GetByID(ctx, id)
}

// DeleteContest removes a contest. Without force it refuses when any
// entry carries payment history; with force it cascades entries,
// submissions and their stored videos.
func (u *ContestUsecase) DeleteContest(ctx context.Context, id uuid.UUID, force bool) error {
	if _, err := u.contestRepo.GetByID(ctx, id); err != nil {
		return err
	}

	entries, err := u.entryRepo.ListByContest(ctx, id)
	if err != nil {
		return err
	}

	if !force {
		for _, entry := range entries {
			if entry.PaymentStatus != entities.PaymentStatusUnpaid {
				return domainerrors.ErrHasActiveEntries
			}
		}
	}

	// Collect blob ids before the rows disappear.
	var blobIDs []string
	for _, entry := range entries {
		sub, err := u.submissionRepo.GetByEntryID(ctx, entry.ID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return err
		}
		blobIDs = append(blobIDs, sub.BlobID)
	}

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		for _, entry := range entries {
			if err := u.entryRepo.Delete(ctx, entry.ID); err != nil {
				return err
			}
		}
		return u.contestRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	// Blob deletion happens after the commit; an orphaned blob is
	// recoverable, a dangling DB row pointing at nothing is not.
	for _, blobID := range blobIDs {
		if err := u.blobs.Delete(ctx, blobID); err != nil {
			logger.Warn(ctx, "Contest delete: leaving orphaned blob",
				zap.String("blob_id", blobID), zap.Error(err))
		}
	}
	return nil
}

// ListContestants returns the admin roster: each entry joined with
// its holder and submission, when one exists.
func (u *ContestUsecase) ListContestants(ctx context.Context, contestID uuid.UUID) ([]*entities.Contestant, error) {
	if _, err := u.contestRepo.GetByID(ctx, contestID); err != nil {
		return nil, err
	}

	entries, err := u.entryRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	contestants := make([]*entities.Contestant, 0, len(entries))
	for _, entry := range entries {
		user, err := u.userRepo.GetByID(ctx, entry.UserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}

		contestant := &entities.Contestant{Entry: entry, User: user}
		sub, err := u.submissionRepo.GetByEntryID(ctx, entry.ID)
		if err == nil {
			contestant.Submission = sub
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		contestants = append(contestants, contestant)
	}
	return contestants, nil
}

// MarkWinner records a podium position (1, 2 or 3) for one entry.
// A nil position clears it.
func (u *ContestUsecase) MarkWinner(ctx context.Context, contestID, entryID uuid.UUID, position *int) (*entities.Entry, error) {
	if position != nil && (*position < 1 || *position > 3) {
		return nil, domainerrors.BadRequest("winner position must be 1, 2 or 3")
	}

	entry, err := u.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ContestID != contestID {
		return nil, domainerrors.ErrNotFound
	}
	if position != nil && !entry.Settled() {
		return nil, domainerrors.ErrPaymentNotSettled
	}

	if err := u.entryRepo.SetWinnerPosition(ctx, entryID, position); err != nil {
		return nil, err
	}
	entry.WinnerPosition = position
	return entry, nil
}

// PromoteContestant grants the entry's holder a free pass into their
// next contest and marks the entry as carried forward.
func (u *ContestUsecase) PromoteContestant(ctx context.Context, contestID, entryID uuid.UUID) error {
	entry, err := u.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.ContestID != contestID {
		return domainerrors.ErrNotFound
	}
	if !entry.Settled() {
		return domainerrors.ErrPaymentNotSettled
	}

	return u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.entryRepo.SetPromotedForward(ctx, entry.ID, true); err != nil {
			return err
		}
		return u.userRepo.SetPromoted(ctx, entry.UserID, true)
	})
}

// BulkPromoteContestants promotes several entries at once and returns
// the entry IDs that could not be promoted.
func (u *ContestUsecase) BulkPromoteContestants(ctx context.Context, contestID uuid.UUID, entryIDs []uuid.UUID) []uuid.UUID {
	var failed []uuid.UUID
	for _, id := range entryIDs {
		if err := u.PromoteContestant(ctx, contestID, id); err != nil {
			logger.Warn(ctx, "Bulk promote: skipping entry",
				zap.String("entry_id", id.String()), zap.Error(err))
			failed = append(failed, id)
		}
	}
	return failed
}

// ListUsers lists users for the admin console, filtered by a search term.
func (u *ContestUsecase) ListUsers(ctx context.Context, search string) ([]*entities.User, error) {
	return u.userRepo.List(ctx, search)
}

// GetUser returns one user for the admin console
func (u *ContestUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// DeleteUser soft-deletes a user. Their entries and submissions stay
// in the ledger; payment history is never erased by account removal.
func (u *ContestUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := u.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return u.userRepo.SoftDelete(ctx, id)
}
