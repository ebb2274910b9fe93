package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email             string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string      `gorm:"type:varchar(100);not null"`
	PasswordHash      string      `gorm:"type:varchar(255);not null"`
	Role              string      `gorm:"type:varchar(50);not null;default:'PARTICIPANT'"`
	BankName          null.String `gorm:"type:varchar(100)"`
	BankAccountNumber null.String `gorm:"type:varchar(20)"`
	BankAccountName   null.String `gorm:"type:varchar(100)"`
	IsPromoted        bool        `gorm:"not null;default:false"`
	CurrentStage      string      `gorm:"type:varchar(100)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}
