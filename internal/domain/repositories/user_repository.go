package repositories

import (
	"context"

	"github.com/google/uuid"
	"stagepass.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	// SetPromoted sets or clears the free-entry flag unconditionally.
	SetPromoted(ctx context.Context, id uuid.UUID, promoted bool) error
	// ConsumePromotion clears the flag only if it is currently set and
	// reports whether this call was the one that consumed it.
	ConsumePromotion(ctx context.Context, id uuid.UUID) (bool, error)
	SetCurrentStage(ctx context.Context, id uuid.UUID, stage string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]*entities.User, error)
}
