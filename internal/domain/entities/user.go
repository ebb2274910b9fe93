package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin       UserRole = "ADMINISTRATOR"
	UserRoleParticipant UserRole = "PARTICIPANT"
)

// PayoutDetails holds the bank account a winner is paid into
type PayoutDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// Complete reports whether every payout field is filled in
func (p PayoutDetails) Complete() bool {
	return p.BankName != "" && p.AccountNumber != "" && p.AccountName != ""
}

// User represents a registered contestant or administrator
type User struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"`
	Role         UserRole       `json:"role"`
	Payout       *PayoutDetails `json:"payout,omitempty"`
	IsPromoted   bool           `json:"isPromoted"`
	CurrentStage string         `json:"currentStage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    *time.Time     `json:"-"`
}

// Identity is the verified (user, role) pair attached to a request.
// Core operations receive it explicitly and never read ambient state.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   UserRole
}

// IsAdmin reports whether the identity carries administrator rights
func (i Identity) IsAdmin() bool {
	return i.Role == UserRoleAdmin
}

// SignupInput represents input for creating a user
type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput represents input for updating name and payout details
type UpdateProfileInput struct {
	Name          string `json:"name" binding:"omitempty,min=2,max=100"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber" binding:"omitempty,numeric"`
	AccountName   string `json:"accountName"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
