package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type Contest struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name            string      `gorm:"type:varchar(150);not null"`
	Description     string      `gorm:"type:text"`
	EntryFeeKobo    int64       `gorm:"not null;default:0"`
	FirstPrizeKobo  int64       `gorm:"not null;default:0"`
	SecondPrizeKobo int64       `gorm:"not null;default:0"`
	ThirdPrizeKobo  int64       `gorm:"not null;default:0"`
	Stage           string      `gorm:"type:varchar(100);not null;default:'submission'"`
	IsActive        bool        `gorm:"not null;default:true;index"`
	Category        null.String `gorm:"type:varchar(100)"`
	MaxContestants  int         `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}
