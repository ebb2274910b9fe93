package entities

import (
	"time"

	"github.com/google/uuid"
)

// Contest represents a contest users can enter
type Contest struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	EntryFeeKobo    int64      `json:"entryFeeKobo"` // smallest currency unit
	FirstPrizeKobo  int64      `json:"firstPrizeKobo"`
	SecondPrizeKobo int64      `json:"secondPrizeKobo"`
	ThirdPrizeKobo  int64      `json:"thirdPrizeKobo"`
	Stage           string     `json:"stage"`
	IsActive        bool       `json:"isActive"`
	Category        string     `json:"category,omitempty"`
	MaxContestants  int        `json:"maxContestants,omitempty"` // 0 means uncapped
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"-"`
}

// CreateContestInput represents input for creating a contest
type CreateContestInput struct {
	Name            string `json:"name" binding:"required,min=2,max=150"`
	Description     string `json:"description"`
	EntryFeeKobo    int64  `json:"entryFeeKobo" binding:"min=0"`
	FirstPrizeKobo  int64  `json:"firstPrizeKobo" binding:"min=0"`
	SecondPrizeKobo int64  `json:"secondPrizeKobo" binding:"min=0"`
	ThirdPrizeKobo  int64  `json:"thirdPrizeKobo" binding:"min=0"`
	Stage           string `json:"stage"`
	IsActive        *bool  `json:"isActive"`
	Category        string `json:"category"`
	MaxContestants  int    `json:"maxContestants" binding:"min=0"`
}

// UpdateContestInput represents a partial contest update. Fee changes
// apply only to future entries; existing entries keep their snapshot.
type UpdateContestInput struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=150"`
	Description     *string `json:"description"`
	EntryFeeKobo    *int64  `json:"entryFeeKobo" binding:"omitempty,min=0"`
	FirstPrizeKobo  *int64  `json:"firstPrizeKobo" binding:"omitempty,min=0"`
	SecondPrizeKobo *int64  `json:"secondPrizeKobo" binding:"omitempty,min=0"`
	ThirdPrizeKobo  *int64  `json:"thirdPrizeKobo" binding:"omitempty,min=0"`
	IsActive        *bool   `json:"isActive"`
	Category        *string `json:"category"`
	MaxContestants  *int    `json:"maxContestants" binding:"omitempty,min=0"`
}
