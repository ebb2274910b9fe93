package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/usecases"
)

type submissionFixture struct {
	entryRepo      *MockEntryRepository
	submissionRepo *MockSubmissionRepository
	userRepo       *MockUserRepository
	blobs          *MockBlobStore
	uc             *usecases.SubmissionUsecase
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		entryRepo:      new(MockEntryRepository),
		submissionRepo: new(MockSubmissionRepository),
		userRepo:       new(MockUserRepository),
		blobs:          new(MockBlobStore),
	}
	f.uc = usecases.NewSubmissionUsecase(f.entryRepo, f.submissionRepo, f.userRepo, f.blobs)
	return f
}

func payoutUser() *entities.User {
	return &entities.User{
		ID:    uuid.New(),
		Email: "singer@mail.com",
		Role:  entities.UserRoleParticipant,
		Payout: &entities.PayoutDetails{
			BankName:      "GTBank",
			AccountNumber: "0123456789",
			AccountName:   "A Singer",
		},
	}
}

func TestAcceptUpload_SettledEntryWithPayout(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusCompleted,
	}

	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()
	f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	f.submissionRepo.On("GetByEntryID", ctx, entry.ID).Return(nil, domainerrors.ErrNotFound).Once()
	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, "video/mp4").Return("videos/key.mp4", nil).Once()
	f.submissionRepo.On("Create", ctx, mock.MatchedBy(func(s *entities.Submission) bool {
		return s.EntryID == entry.ID && s.BlobID == "videos/key.mp4" && s.FileName == "audition.mp4"
	})).Return(nil).Once()

	sub, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "videos/key.mp4", sub.BlobID)
	f.submissionRepo.AssertExpectations(t)
}

func TestAcceptUpload_UnsettledEntryRefused(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusPending,
	}
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotSettled)
	f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptUpload_FreeEntryPasses(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusCompleted,
		IsFree:        true,
	}
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()
	f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	f.submissionRepo.On("GetByEntryID", ctx, entry.ID).Return(nil, domainerrors.ErrNotFound).Once()
	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, "video/mp4").Return("videos/free.mp4", nil).Once()
	f.submissionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 512, "video/mp4", strings.NewReader("bytes"))
	assert.NoError(t, err)
}

func TestAcceptUpload_MissingPayoutDetails(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	user.Payout.AccountNumber = ""
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusCompleted,
	}
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()
	f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrMissingPayoutDetails)
	f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptUpload_DuplicateSubmission(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusCompleted,
	}
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()
	f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	f.submissionRepo.On("GetByEntryID", ctx, entry.ID).Return(&entities.Submission{ID: uuid.New()}, nil).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSubmission)
	f.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptUpload_ConcurrentDuplicateCleansUpBlob(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	entry := &entities.Entry{
		ID:            uuid.New(),
		UserID:        user.ID,
		ContestID:     contestID,
		PaymentStatus: entities.PaymentStatusCompleted,
	}
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(entry, nil).Once()
	f.userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
	f.submissionRepo.On("GetByEntryID", ctx, entry.ID).Return(nil, domainerrors.ErrNotFound).Once()
	f.blobs.On("Put", ctx, mock.Anything, mock.Anything, "video/mp4").Return("videos/orphan.mp4", nil).Once()
	f.submissionRepo.On("Create", ctx, mock.Anything).Return(domainerrors.ErrDuplicateSubmission).Once()
	f.blobs.On("Delete", ctx, "videos/orphan.mp4").Return(nil).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSubmission)
	f.blobs.AssertExpectations(t)
}

func TestAcceptUpload_NoEntry(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	user := payoutUser()
	contestID := uuid.New()
	f.entryRepo.On("FindByUserAndContest", ctx, user.ID, contestID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := f.uc.AcceptUpload(ctx, identityFor(user), contestID, "audition.mp4", 1024, "video/mp4", strings.NewReader("bytes"))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteSubmission_RemovesBlob(t *testing.T) {
	f := newSubmissionFixture()
	ctx := context.Background()

	sub := &entities.Submission{ID: uuid.New(), BlobID: "videos/gone.mp4"}
	f.submissionRepo.On("GetByID", ctx, sub.ID).Return(sub, nil).Once()
	f.submissionRepo.On("Delete", ctx, sub.ID).Return(nil).Once()
	f.blobs.On("Delete", ctx, "videos/gone.mp4").Return(nil).Once()

	assert.NoError(t, f.uc.DeleteSubmission(ctx, sub.ID))
	f.blobs.AssertExpectations(t)
}
