package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/infrastructure/models"
)

// EntryRepository implements the entry ledger
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// CreateIfAbsent inserts the entry unless a row already exists for its
// (user, contest) pair. A concurrent insert loses on the unique index
// and resolves to the stored row, so two racing calls always converge
// on one ledger entry.
func (r *EntryRepository) CreateIfAbsent(ctx context.Context, entry *entities.Entry) (*entities.Entry, bool, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	existing, err := r.FindByUserAndContest(ctx, entry.UserID, entry.ContestID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, false, err
	}

	m := r.toModel(entry)
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	if createErr := db.Create(m).Error; createErr != nil {
		// Likely lost a race on idx_user_contest; the winner's row is
		// authoritative either way.
		existing, findErr := r.FindByUserAndContest(ctx, entry.UserID, entry.ContestID)
		if findErr == nil {
			return existing, false, nil
		}
		return nil, false, createErr
	}
	return r.toEntity(m), true, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Entry, error) {
	var m models.Entry
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *EntryRepository) FindByUserAndContest(ctx context.Context, userID, contestID uuid.UUID) (*entities.Entry, error) {
	var m models.Entry
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND contest_id = ?", userID, contestID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *EntryRepository) FindByReference(ctx context.Context, reference string) (*entities.Entry, error) {
	var m models.Entry
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("payment_reference = ?", reference).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrReferenceNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// TransitionStatus is the optimistic-concurrency primitive: the update
// only lands when the stored status still matches `from`, otherwise
// the caller gets ErrStatusConflict and must re-read.
func (r *EntryRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ? AND payment_status = ?", id, from).
		Updates(map[string]interface{}{
			"payment_status": to,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *EntryRepository) SetReferenceIfEmpty(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ? AND (payment_reference IS NULL OR payment_reference = '')", id).
		Updates(map[string]interface{}{
			"payment_reference": reference,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *EntryRepository) ReplaceReference(ctx context.Context, id uuid.UUID, reference string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_reference": reference,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkFree settles a not-yet-completed entry as a consumed promotion.
// Guarded on status so it can never downgrade a paid entry.
func (r *EntryRepository) MarkFree(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ? AND payment_status <> ?", id, entities.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"is_free":        true,
			"payment_status": entities.PaymentStatusCompleted,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *EntryRepository) SetWinnerPosition(ctx context.Context, id uuid.UUID, position *int) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"winner_position": null.IntFromPtr(position),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) SetPromotedForward(ctx context.Context, id uuid.UUID, promoted bool) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_promoted_forward": promoted,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*entities.Entry, error) {
	var entryModels []models.Entry
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at ASC").
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(entryModels), nil
}

func (r *EntryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Entry, error) {
	var entryModels []models.Entry
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(entryModels), nil
}

func (r *EntryRepository) CountByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Entry{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error
	return count, err
}

func (r *EntryRepository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.Entry, error) {
	var entryModels []models.Entry
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("payment_status = ? AND updated_at < ?", entities.PaymentStatusPending, olderThan).
		Limit(limit).
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(entryModels), nil
}

// Delete removes the ledger row and its submission row. The blob is
// the caller's responsibility.
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db).WithContext(ctx)
	if err := db.Unscoped().Delete(&models.Submission{}, "entry_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Entry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) toModel(e *entities.Entry) *models.Entry {
	return &models.Entry{
		ID:                e.ID,
		UserID:            e.UserID,
		ContestID:         e.ContestID,
		FeeKobo:           e.FeeKobo,
		PaymentStatus:     string(e.PaymentStatus),
		PaymentReference:  null.NewString(e.PaymentReference, e.PaymentReference != ""),
		IsFree:            e.IsFree,
		WinnerPosition:    null.IntFromPtr(e.WinnerPosition),
		IsPromotedForward: e.IsPromotedForward,
	}
}

func (r *EntryRepository) toEntity(m *models.Entry) *entities.Entry {
	return &entities.Entry{
		ID:                m.ID,
		UserID:            m.UserID,
		ContestID:         m.ContestID,
		FeeKobo:           m.FeeKobo,
		PaymentStatus:     entities.PaymentStatus(m.PaymentStatus),
		PaymentReference:  m.PaymentReference.String,
		IsFree:            m.IsFree,
		WinnerPosition:    m.WinnerPosition.Ptr(),
		IsPromotedForward: m.IsPromotedForward,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *EntryRepository) toEntities(ms []models.Entry) []*entities.Entry {
	var entries []*entities.Entry
	for _, m := range ms {
		model := m
		entries = append(entries, r.toEntity(&model))
	}
	return entries
}
