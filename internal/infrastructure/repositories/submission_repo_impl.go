package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stagepass.backend/internal/domain/entities"
	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/infrastructure/models"
)

// SubmissionRepository implements submission data operations
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *entities.Submission) error {
	m := &models.Submission{
		ID:        submission.ID,
		EntryID:   submission.EntryID,
		UserID:    submission.UserID,
		ContestID: submission.ContestID,
		BlobID:    submission.BlobID,
		FileName:  submission.FileName,
		SizeBytes: submission.SizeBytes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		// One video per entry; the unique index on entry_id backs the
		// gate's duplicate check against races.
		if _, findErr := r.GetByEntryID(ctx, submission.EntryID); findErr == nil {
			return domainerrors.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Submission, error) {
	var m models.Submission
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *SubmissionRepository) GetByEntryID(ctx context.Context, entryID uuid.UUID) (*entities.Submission, error) {
	var m models.Submission
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("entry_id = ?", entryID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *SubmissionRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*entities.Submission, error) {
	var submissionModels []models.Submission
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("created_at ASC").
		Find(&submissionModels).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(submissionModels), nil
}

func (r *SubmissionRepository) List(ctx context.Context) ([]*entities.Submission, error) {
	var submissionModels []models.Submission
	err := GetDB(ctx, r.db).WithContext(ctx).
		Order("created_at DESC").
		Find(&submissionModels).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(submissionModels), nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Unscoped().Delete(&models.Submission{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *SubmissionRepository) toEntity(m *models.Submission) *entities.Submission {
	return &entities.Submission{
		ID:         m.ID,
		EntryID:    m.EntryID,
		UserID:     m.UserID,
		ContestID:  m.ContestID,
		BlobID:     m.BlobID,
		FileName:   m.FileName,
		SizeBytes:  m.SizeBytes,
		UploadedAt: m.CreatedAt,
	}
}

func (r *SubmissionRepository) toEntities(ms []models.Submission) []*entities.Submission {
	var submissions []*entities.Submission
	for _, m := range ms {
		model := m
		submissions = append(submissions, r.toEntity(&model))
	}
	return submissions
}
