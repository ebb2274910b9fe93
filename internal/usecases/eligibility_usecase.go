package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/domain/repositories"
	"stagepass.backend/internal/infrastructure/gateway"
	"stagepass.backend/pkg/logger"
	"stagepass.backend/pkg/metrics"
	"stagepass.backend/pkg/utils"
)

// EligibilityUsecase decides whether a user may enter a contest and
// settles the outcome: an existing settled entry, a consumed
// promotion, or a payment handle the participant must complete.
type EligibilityUsecase struct {
	userRepo    repositories.UserRepository
	contestRepo repositories.ContestRepository
	entryRepo   repositories.EntryRepository
	gateway     gateway.Gateway
	uow         repositories.UnitOfWork
}

// NewEligibilityUsecase creates a new eligibility usecase
func NewEligibilityUsecase(
	userRepo repositories.UserRepository,
	contestRepo repositories.ContestRepository,
	entryRepo repositories.EntryRepository,
	gw gateway.Gateway,
	uow repositories.UnitOfWork,
) *EligibilityUsecase {
	return &EligibilityUsecase{
		userRepo:    userRepo,
		contestRepo: contestRepo,
		entryRepo:   entryRepo,
		gateway:     gw,
		uow:         uow,
	}
}

// RequestEntry is the single entry point for joining a contest.
// Calling it twice for the same (user, contest) pair never produces a
// second live entry: the first settled outcome wins, a pending entry
// is resumed with its existing reference, and a failed one is
// reopened with a fresh reference.
func (u *EligibilityUsecase) RequestEntry(ctx context.Context, identity entities.Identity, contestID uuid.UUID) (*entities.EntryDecision, error) {
	contest, err := u.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.IsActive {
		return nil, domainerrors.ErrContestInactive
	}

	user, err := u.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	var (
		entry    *entities.Entry
		decision *entities.EntryDecision
		reopened bool
	)

	err = u.uow.Do(ctx, func(ctx context.Context) error {
		candidate := &entities.Entry{
			ID:            utils.GenerateUUIDv7(),
			UserID:        user.ID,
			ContestID:     contest.ID,
			FeeKobo:       contest.EntryFeeKobo,
			PaymentStatus: entities.PaymentStatusPending,
		}

		stored, created, err := u.entryRepo.CreateIfAbsent(ctx, candidate)
		if err != nil {
			return err
		}
		entry = stored

		// The cap counts ledger rows, so the check runs after our own
		// insert; rollback removes the row when the contest is full.
		if created && contest.MaxContestants > 0 {
			count, err := u.entryRepo.CountByContest(ctx, contest.ID)
			if err != nil {
				return err
			}
			if count > int64(contest.MaxContestants) {
				return domainerrors.ErrContestFull
			}
		}

		if entry.Settled() {
			decision = &entities.EntryDecision{Kind: entities.DecisionAlreadyEntered, Entry: entry}
			return nil
		}

		// A failed attempt is the only state a participant can retry
		// out of; it reopens as pending with a fresh reference.
		if entry.PaymentStatus == entities.PaymentStatusFailed {
			err := u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusFailed, entities.PaymentStatusPending)
			if err != nil {
				if !errors.Is(err, domainerrors.ErrStatusConflict) {
					return err
				}
				// A concurrent retry moved the entry first; re-read
				// and converge on its outcome instead of conflicting.
				current, readErr := u.entryRepo.GetByID(ctx, entry.ID)
				if readErr != nil {
					return readErr
				}
				entry = current
				if entry.Settled() {
					decision = &entities.EntryDecision{Kind: entities.DecisionAlreadyEntered, Entry: entry}
					return nil
				}
				if entry.PaymentStatus == entities.PaymentStatusFailed {
					// Back to failed already; attempt the edge once more.
					if err := u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusFailed, entities.PaymentStatusPending); err != nil {
						return err
					}
					entry.PaymentStatus = entities.PaymentStatusPending
					reopened = true
				}
				// Pending means the winner reopened it; its reference,
				// fresh or inherited, is adopted below.
			} else {
				entry.PaymentStatus = entities.PaymentStatusPending
				reopened = true
			}
		}

		// Promotion consumption and settlement commit atomically with
		// the entry, so a crash can never burn the flag without a
		// settled entry to show for it.
		if user.IsPromoted {
			consumed, err := u.userRepo.ConsumePromotion(ctx, user.ID)
			if err != nil {
				return err
			}
			if consumed {
				if err := u.entryRepo.MarkFree(ctx, entry.ID); err != nil {
					return err
				}
				entry.IsFree = true
				entry.PaymentStatus = entities.PaymentStatusCompleted
				decision = &entities.EntryDecision{Kind: entities.DecisionFreeEntryGranted, Entry: entry}
				return nil
			}
		}

		// Zero-fee contests settle without touching the gateway.
		if entry.FeeKobo == 0 {
			if err := u.entryRepo.MarkFree(ctx, entry.ID); err != nil {
				return err
			}
			entry.IsFree = true
			entry.PaymentStatus = entities.PaymentStatusCompleted
			decision = &entities.EntryDecision{Kind: entities.DecisionFreeEntryGranted, Entry: entry}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decision != nil {
		return decision, nil
	}

	// Pending with a reference already attached: hand the same
	// reference back instead of opening a second gateway transaction.
	if entry.PaymentReference != "" && !reopened {
		return &entities.EntryDecision{
			Kind:       entities.DecisionPaymentRequired,
			Entry:      entry,
			AmountKobo: entry.FeeKobo,
			Reference:  entry.PaymentReference,
		}, nil
	}

	reference := utils.PaymentReference(user.ID, contest.ID, entry.FeeKobo)
	init, err := u.gateway.Initialize(ctx, user.Email, reference, entry.FeeKobo)
	if err != nil {
		// The entry stays pending without a reference; the next call retries.
		return nil, err
	}

	if reopened {
		if err := u.entryRepo.ReplaceReference(ctx, entry.ID, init.Reference); err != nil {
			return nil, err
		}
		entry.PaymentReference = init.Reference
	} else {
		won, err := u.entryRepo.SetReferenceIfEmpty(ctx, entry.ID, init.Reference)
		if err != nil {
			return nil, err
		}
		if !won {
			// A concurrent call attached its reference first; this
			// call adopts that transaction instead of forking one.
			current, err := u.entryRepo.GetByID(ctx, entry.ID)
			if err != nil {
				return nil, err
			}
			if current.Settled() {
				return &entities.EntryDecision{Kind: entities.DecisionAlreadyEntered, Entry: current}, nil
			}
			return &entities.EntryDecision{
				Kind:       entities.DecisionPaymentRequired,
				Entry:      current,
				AmountKobo: current.FeeKobo,
				Reference:  current.PaymentReference,
			}, nil
		}
		entry.PaymentReference = init.Reference
	}

	return &entities.EntryDecision{
		Kind:       entities.DecisionPaymentRequired,
		Entry:      entry,
		AmountKobo: entry.FeeKobo,
		Reference:  entry.PaymentReference,
		AccessCode: init.AccessCode,
	}, nil
}

// ReconcilePayment settles a payment reference against the gateway's
// verdict. It is idempotent: reconciling an already completed entry
// is a no-op that reports AlreadySettled, and concurrent
// reconciliations of the same reference converge on one outcome.
func (u *EligibilityUsecase) ReconcilePayment(ctx context.Context, reference string) (*entities.ReconciliationResult, error) {
	entry, err := u.entryRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) || errors.Is(err, domainerrors.ErrReferenceNotFound) {
			metrics.ObserveReconciliation("not_found")
		}
		return nil, err
	}

	if entry.PaymentStatus == entities.PaymentStatusCompleted {
		return &entities.ReconciliationResult{
			Reference:      reference,
			Status:         entities.PaymentStatusCompleted,
			AmountPaidKobo: entry.FeeKobo,
			AlreadySettled: true,
		}, nil
	}

	verdict, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		metrics.ObserveReconciliation("unreachable")
		return nil, err
	}

	// A settled charge below the snapshotted fee does not grant entry.
	paidInFull := verdict.Success && verdict.AmountPaidKobo >= entry.FeeKobo
	if verdict.Success && !paidInFull {
		logger.Warn(ctx, "Reconciliation: underpaid reference treated as failed",
			zap.String("reference", reference),
			zap.Int64("paid_kobo", verdict.AmountPaidKobo),
			zap.Int64("fee_kobo", entry.FeeKobo))
	}

	if paidInFull {
		err := u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusPending, entities.PaymentStatusCompleted)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrStatusConflict) {
				return nil, err
			}
			// Someone else moved the entry; re-read and converge.
			current, readErr := u.entryRepo.GetByID(ctx, entry.ID)
			if readErr != nil {
				return nil, readErr
			}
			switch current.PaymentStatus {
			case entities.PaymentStatusCompleted:
				return &entities.ReconciliationResult{
					Reference:      reference,
					Status:         entities.PaymentStatusCompleted,
					AmountPaidKobo: verdict.AmountPaidKobo,
					AlreadySettled: true,
				}, nil
			case entities.PaymentStatusFailed:
				// The sweep got here first; a verified payment wins,
				// walked back through the only legal edge.
				if err := u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusFailed, entities.PaymentStatusPending); err != nil {
					return nil, err
				}
				if err := u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusPending, entities.PaymentStatusCompleted); err != nil {
					return nil, err
				}
			default:
				return nil, err
			}
		}
		metrics.ObserveReconciliation("completed")
		return &entities.ReconciliationResult{
			Reference:      reference,
			Status:         entities.PaymentStatusCompleted,
			AmountPaidKobo: verdict.AmountPaidKobo,
		}, nil
	}

	err = u.entryRepo.TransitionStatus(ctx, entry.ID, entities.PaymentStatusPending, entities.PaymentStatusFailed)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrStatusConflict) {
			return nil, err
		}
		current, readErr := u.entryRepo.GetByID(ctx, entry.ID)
		if readErr != nil {
			return nil, readErr
		}
		if current.PaymentStatus == entities.PaymentStatusCompleted {
			return &entities.ReconciliationResult{
				Reference:      reference,
				Status:         entities.PaymentStatusCompleted,
				AmountPaidKobo: current.FeeKobo,
				AlreadySettled: true,
			}, nil
		}
	}
	metrics.ObserveReconciliation("failed")
	return &entities.ReconciliationResult{
		Reference: reference,
		Status:    entities.PaymentStatusFailed,
	}, nil
}

// EntryStatus returns the caller's entry for a contest, when one exists.
func (u *EligibilityUsecase) EntryStatus(ctx context.Context, identity entities.Identity, contestID uuid.UUID) (*entities.Entry, error) {
	return u.entryRepo.FindByUserAndContest(ctx, identity.UserID, contestID)
}

// ListMyEntries returns every entry the caller holds, across contests.
func (u *EligibilityUsecase) ListMyEntries(ctx context.Context, identity entities.Identity) ([]*entities.Entry, error) {
	return u.entryRepo.ListByUser(ctx, identity.UserID)
}

// ApplyPromotion grants a user a free entry into their next contest.
func (u *EligibilityUsecase) ApplyPromotion(ctx context.Context, userID uuid.UUID) error {
	if _, err := u.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return u.userRepo.SetPromoted(ctx, userID, true)
}

// BulkApplyPromotion promotes several users at once and returns the
// IDs that could not be promoted.
func (u *EligibilityUsecase) BulkApplyPromotion(ctx context.Context, userIDs []uuid.UUID) []uuid.UUID {
	var failed []uuid.UUID
	for _, id := range userIDs {
		if err := u.ApplyPromotion(ctx, id); err != nil {
			logger.Warn(ctx, "Bulk promotion: skipping user",
				zap.String("user_id", id.String()), zap.Error(err))
			failed = append(failed, id)
		}
	}
	return failed
}
