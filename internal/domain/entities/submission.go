package entities

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the uploaded video tied to exactly one settled entry
type Submission struct {
	ID         uuid.UUID `json:"id"`
	EntryID    uuid.UUID `json:"entryId"`
	UserID     uuid.UUID `json:"userId"`
	ContestID  uuid.UUID `json:"contestId"`
	BlobID     string    `json:"blobId"`
	FileName   string    `json:"fileName"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Contestant is the admin view of one entry joined with its holder
// and submission, used for winner marking and promotion.
type Contestant struct {
	Entry      *Entry      `json:"entry"`
	User       *User       `json:"user"`
	Submission *Submission `json:"submission,omitempty"`
}
