package repositories

import (
	"context"

	"github.com/google/uuid"
	"stagepass.backend/internal/domain/entities"
)

// SubmissionRepository defines submission data operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *entities.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Submission, error)
	GetByEntryID(ctx context.Context, entryID uuid.UUID) (*entities.Submission, error)
	ListByContest(ctx context.Context, contestID uuid.UUID) ([]*entities.Submission, error)
	List(ctx context.Context) ([]*entities.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
