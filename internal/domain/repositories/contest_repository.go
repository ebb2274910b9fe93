package repositories

import (
	"context"

	"github.com/google/uuid"
	"stagepass.backend/internal/domain/entities"
)

// ContestRepository defines contest data operations
type ContestRepository interface {
	Create(ctx context.Context, contest *entities.Contest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Contest, error)
	Update(ctx context.Context, contest *entities.Contest) error
	SetStage(ctx context.Context, id uuid.UUID, stage string) error
	List(ctx context.Context, activeOnly bool) ([]*entities.Contest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
