package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/domain/repositories"
	"stagepass.backend/internal/infrastructure/blobstore"
	"stagepass.backend/pkg/logger"
	"stagepass.backend/pkg/utils"
)

// SubmissionUsecase is the gate in front of video uploads: only a
// settled entry whose holder has complete payout details may submit,
// and each entry accepts exactly one submission.
type SubmissionUsecase struct {
	entryRepo      repositories.EntryRepository
	submissionRepo repositories.SubmissionRepository
	userRepo       repositories.UserRepository
	blobs          blobstore.Store
}

// NewSubmissionUsecase creates a new submission usecase
func NewSubmissionUsecase(
	entryRepo repositories.EntryRepository,
	submissionRepo repositories.SubmissionRepository,
	userRepo repositories.UserRepository,
	blobs blobstore.Store,
) *SubmissionUsecase {
	return &SubmissionUsecase{
		entryRepo:      entryRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		blobs:          blobs,
	}
}

// AcceptUpload runs the submission gate and stores the video.
func (u *SubmissionUsecase) AcceptUpload(ctx context.Context, identity entities.Identity, contestID uuid.UUID, fileName string, sizeBytes int64, contentType string, body io.Reader) (*entities.Submission, error) {
	entry, err := u.entryRepo.FindByUserAndContest(ctx, identity.UserID, contestID)
	if err != nil {
		return nil, err
	}
	if !entry.Settled() {
		return nil, domainerrors.ErrPaymentNotSettled
	}

	user, err := u.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user.Payout == nil || !user.Payout.Complete() {
		return nil, domainerrors.ErrMissingPayoutDetails
	}

	// Early duplicate check saves the upload; the unique index on
	// entry_id is what actually enforces one submission per entry.
	if _, err := u.submissionRepo.GetByEntryID(ctx, entry.ID); err == nil {
		return nil, domainerrors.ErrDuplicateSubmission
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	key := fmt.Sprintf("videos/%s/%s/%s%s",
		contestID, entry.ID, utils.GenerateUUIDv7(), path.Ext(fileName))
	blobID, err := u.blobs.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, err
	}

	submission := &entities.Submission{
		ID:         utils.GenerateUUIDv7(),
		EntryID:    entry.ID,
		UserID:     identity.UserID,
		ContestID:  contestID,
		BlobID:     blobID,
		FileName:   fileName,
		SizeBytes:  sizeBytes,
		UploadedAt: time.Now(),
	}
	if err := u.submissionRepo.Create(ctx, submission); err != nil {
		// The row lost to a concurrent upload; the stored blob has no
		// owner, so clean it up.
		if errors.Is(err, domainerrors.ErrDuplicateSubmission) {
			if delErr := u.blobs.Delete(ctx, blobID); delErr != nil {
				logger.Warn(ctx, "Submission: leaving orphaned blob after duplicate",
					zap.String("blob_id", blobID), zap.Error(delErr))
			}
		}
		return nil, err
	}
	return submission, nil
}

// GetMySubmission returns the caller's submission for a contest.
func (u *SubmissionUsecase) GetMySubmission(ctx context.Context, identity entities.Identity, contestID uuid.UUID) (*entities.Submission, error) {
	entry, err := u.entryRepo.FindByUserAndContest(ctx, identity.UserID, contestID)
	if err != nil {
		return nil, err
	}
	return u.submissionRepo.GetByEntryID(ctx, entry.ID)
}

// ListSubmissions lists submissions, optionally scoped to one contest.
func (u *SubmissionUsecase) ListSubmissions(ctx context.Context, contestID *uuid.UUID) ([]*entities.Submission, error) {
	if contestID != nil {
		return u.submissionRepo.ListByContest(ctx, *contestID)
	}
	return u.submissionRepo.List(ctx)
}

// DeleteSubmission removes a submission and its stored video.
func (u *SubmissionUsecase) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	submission, err := u.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.submissionRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := u.blobs.Delete(ctx, submission.BlobID); err != nil {
		logger.Warn(ctx, "Submission delete: leaving orphaned blob",
			zap.String("blob_id", submission.BlobID), zap.Error(err))
	}
	return nil
}
