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

// ContestRepository implements contest data operations
type ContestRepository struct {
	db *gorm.DB
}

// NewContestRepository creates a new contest repository
func NewContestRepository(db *gorm.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) Create(ctx context.Context, contest *entities.Contest) error {
	m := r.toModel(contest)
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *ContestRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contest, error) {
	var m models.Contest
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ContestRepository) Update(ctx context.Context, contest *entities.Contest) error {
	updates := map[string]interface{}{
		"name":              contest.Name,
		"description":       contest.Description,
		"entry_fee_kobo":    contest.EntryFeeKobo,
		"first_prize_kobo":  contest.FirstPrizeKobo,
		"second_prize_kobo": contest.SecondPrizeKobo,
		"third_prize_kobo":  contest.ThirdPrizeKobo,
		"is_active":         contest.IsActive,
		"category":          null.NewString(contest.Category, contest.Category != ""),
		"max_contestants":   contest.MaxContestants,
		"updated_at":        time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Contest{}).
		Where("id = ?", contest.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ContestRepository) SetStage(ctx context.Context, id uuid.UUID, stage string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Contest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage":      stage,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ContestRepository) List(ctx context.Context, activeOnly bool) ([]*entities.Contest, error) {
	var contestModels []models.Contest
	query := GetDB(ctx, r.db).WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&contestModels).Error; err != nil {
		return nil, err
	}

	var contests []*entities.Contest
	for _, m := range contestModels {
		model := m
		contests = append(contests, r.toEntity(&model))
	}
	return contests, nil
}

func (r *ContestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.Contest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ContestRepository) toModel(c *entities.Contest) *models.Contest {
	return &models.Contest{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		EntryFeeKobo:    c.EntryFeeKobo,
		FirstPrizeKobo:  c.FirstPrizeKobo,
		SecondPrizeKobo: c.SecondPrizeKobo,
		ThirdPrizeKobo:  c.ThirdPrizeKobo,
		Stage:           c.Stage,
		IsActive:        c.IsActive,
		Category:        null.NewString(c.Category, c.Category != ""),
		MaxContestants:  c.MaxContestants,
	}
}

func (r *ContestRepository) toEntity(m *models.Contest) *entities.Contest {
	return &entities.Contest{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		EntryFeeKobo:    m.EntryFeeKobo,
		FirstPrizeKobo:  m.FirstPrizeKobo,
		SecondPrizeKobo: m.SecondPrizeKobo,
		ThirdPrizeKobo:  m.ThirdPrizeKobo,
		Stage:           m.Stage,
		IsActive:        m.IsActive,
		Category:        m.Category.String,
		MaxContestants:  m.MaxContestants,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
