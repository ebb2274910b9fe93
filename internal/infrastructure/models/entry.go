package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// Entry carries the ledger invariant in its schema: one row per
// (user, contest), and a reference can belong to at most one entry.
type Entry struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_contest"`
	ContestID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_user_contest;index"`
	FeeKobo           int64       `gorm:"not null"`
	PaymentStatus     string      `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	PaymentReference  null.String `gorm:"type:varchar(100);uniqueIndex"`
	IsFree            bool        `gorm:"not null;default:false"`
	WinnerPosition    null.Int    `gorm:""`
	IsPromotedForward bool        `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Submission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ContestID uuid.UUID `gorm:"type:uuid;not null;index"`
	BlobID    string    `gorm:"type:varchar(255);not null"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	SizeBytes int64     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
