package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"stagepass.backend/internal/domain/entities"
)

// EntryRepository is the ledger of (user, contest) attempts. All
// mutating operations are conditional so that lost updates surface as
// ErrStatusConflict instead of silently overwriting.
type EntryRepository interface {
	// CreateIfAbsent inserts the entry unless one already exists for
	// its (user, contest) pair, in which case the stored row is
	// returned. The second result reports whether a row was created.
	CreateIfAbsent(ctx context.Context, entry *entities.Entry) (*entities.Entry, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Entry, error)
	FindByUserAndContest(ctx context.Context, userID, contestID uuid.UUID) (*entities.Entry, error)
	FindByReference(ctx context.Context, reference string) (*entities.Entry, error)
	// TransitionStatus moves the entry from `from` to `to` and fails
	// with ErrStatusConflict if the stored status is not `from`.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus) error
	// SetReferenceIfEmpty attaches a gateway reference to a pending
	// entry that has none yet; reports whether this call won the race.
	SetReferenceIfEmpty(ctx context.Context, id uuid.UUID, reference string) (bool, error)
	// ReplaceReference swaps in a fresh reference after a failed
	// attempt is reopened.
	ReplaceReference(ctx context.Context, id uuid.UUID, reference string) error
	// MarkFree settles a pending entry as a consumed promotion.
	MarkFree(ctx context.Context, id uuid.UUID) error
	SetWinnerPosition(ctx context.Context, id uuid.UUID, position *int) error
	SetPromotedForward(ctx context.Context, id uuid.UUID, promoted bool) error
	ListByContest(ctx context.Context, contestID uuid.UUID) ([]*entities.Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Entry, error)
	CountByContest(ctx context.Context, contestID uuid.UUID) (int64, error)
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
